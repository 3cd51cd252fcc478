// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

// Combine folds bundles, ordered ancestor to descendant, into a new bundle.
//
// The last non-nil underlying operation wins. Fragments are added in input
// order through the normal add operations, so a non-System fragment present
// in two inputs fails with ErrDuplicateAdvice. Inputs are never mutated.
// Nil inputs are skipped; no inputs, or only headless ones, give a headless
// bundle.
func Combine(bundles ...*Bundle) (*Bundle, error) {
	out := &Bundle{}
	var leaf Func
	for _, b := range bundles {
		if b == nil {
			continue
		}
		if b.underlying != nil {
			leaf = b.underlying
		}
		if err := out.Update(b); err != nil {
			return nil, err
		}
	}
	out.underlying = leaf
	out.refresh()
	out.sortHooks()
	return out, nil
}
