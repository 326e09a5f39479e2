package session

import "github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"

// State is the manager's view of the local session:
// created -> active <-> refreshing -> terminated.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateCreated         State = "created"
	StateActive          State = "active"
	StateRefreshing      State = "refreshing"
	StateTerminated      State = "terminated"
)

// Authenticated reports whether a local session is usable in state s.
func (s State) Authenticated() bool {
	return s == StateActive || s == StateRefreshing
}

// Termination reasons stored on the session record.
const (
	ReasonLogout        = "logout"
	ReasonIdle          = "idle_timeout"
	ReasonSuspicious    = "suspicious_activity"
	ReasonRefreshFailed = "refresh_failed"
	ReasonExpired       = "refresh_token_expired"
	ReasonRemote        = "terminated_by_other_session"
	ReasonSuperseded    = "superseded"
	ReasonStoreFailure  = "store_failure"
)

// Activity is a user or API interaction that resets the idle countdown.
type Activity string

const (
	ActivityPointer  Activity = "pointer"
	ActivityKeyboard Activity = "keyboard"
	ActivityScroll   Activity = "scroll"
	ActivityTouch    Activity = "touch"
	ActivityFocus    Activity = "focus"
	ActivityAPI      Activity = "api"
)

// Valid reports whether a is one of the recognised activity signals.
func (a Activity) Valid() bool {
	switch a {
	case ActivityPointer, ActivityKeyboard, ActivityScroll, ActivityTouch, ActivityFocus, ActivityAPI:
		return true
	}
	return false
}

// Termination describes a local session that has ended.
type Termination struct {
	SessionID string
	UserID    string
	Reason    string
}

// vault is the volatile token storage of one process. Raw tokens never leave
// it except through CurrentAccessToken.
type vault struct {
	sessionID string
	userID    string
	access    models.AccessToken
	refresh   string
}
