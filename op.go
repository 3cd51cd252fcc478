// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"code.hybscloud.com/kont"
)

// Outcome is delivered to a hook's post-phase.
// Result is the final, pipeline-processed return value.
// Context is the receiver of a method-style call, nil otherwise.
type Outcome struct {
	Result  any
	Context any
}

// Await is the effect operation that ends a hook's pre-phase.
// Perform(Await{}) suspends the hook until the underlying call completes
// and resumes it with the call's Outcome.
type Await struct {
	kont.Phantom[Outcome]
}
