// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import "go.uber.org/zap"

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithGuard sets the call-once guard used for slot dispatch.
// The default is DefaultGuard.
func WithGuard(g *Guard) Option {
	return func(r *Registry) {
		if g != nil {
			r.guard = g
		}
	}
}

// WithMeta sets the meta of the universal base, inherited by every class
// defined without an explicit meta. The default is AnchorMeta.
func WithMeta(m *Meta) Option {
	return func(r *Registry) {
		if m != nil {
			r.meta = m
		}
	}
}
