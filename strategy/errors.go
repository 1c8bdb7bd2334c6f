package strategy

import "errors"

// ErrNoPresets indicates that a genetic sweep was configured without presets.
var ErrNoPresets = errors.New("genetic sweep requires at least one preset")
