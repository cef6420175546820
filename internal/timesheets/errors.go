package timesheets

import "errors"

// ErrDecode marks an unsupported, corrupt or header-less upload.
var ErrDecode = errors.New("decode error")
