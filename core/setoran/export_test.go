package setoran

import "time"

// SetNowFunc mocks the clock of the package; call the returned func to restore it.
func SetNowFunc(f func() time.Time) func() {
	orig := nowFunc
	nowFunc = f
	return func() { nowFunc = orig }
}
