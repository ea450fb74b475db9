// Copyright 2025 go-boxblur Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package boxblur

import (
	"log/slog"

	"github.com/ajroetker/go-boxblur/workerpool"
)

// Option configures a Blurrer.
//
// Example:
//
//	b := boxblur.New(boxblur.WithGrain(8), boxblur.WithWorkers(4))
//	defer b.Close()
type Option func(*options)

type options struct {
	grain   int
	workers int
	pool    *workerpool.Pool
	logger  *slog.Logger
}

// WithGrain sets how many rows (or columns) a worker takes at a time.
// Values <= 0 select DefaultGrain.
func WithGrain(grain int) Option {
	return func(o *options) {
		o.grain = grain
	}
}

// WithWorkers sets the size of the worker pool the Blurrer creates.
// Values <= 0 select DefaultWorkers. Ignored when WithPool is given.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithPool makes the Blurrer run on an existing pool instead of creating
// its own. The caller keeps ownership: Blurrer.Close does not close it.
func WithPool(p *workerpool.Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithLogger sets the logger for this Blurrer, overriding the package-wide
// logger installed with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
