package domain

// RenderState tracks a block through one decoration.
type RenderState int

const (
	StateIdle RenderState = iota
	StateValidating
	StateLoading
	StateRendered
	StateNotFound
	StateConfigError
	StateFetchError
)

var stateNames = [...]string{"idle", "validating", "loading", "rendered", "not-found", "config-error", "fetch-error"}

func (s RenderState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no transition leaves s.
func (s RenderState) Terminal() bool {
	return s >= StateRendered
}
