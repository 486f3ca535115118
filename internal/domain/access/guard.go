package access

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type Decision int

const (
	Allow Decision = iota
	Wait
	RedirectLogin
	RedirectHome
)

// Decide is the single admin gate shared by the HTML pages and the JSON API.
func Decide(s Session) Decision {
	switch {
	case s.IsLoading:
		return Wait
	case !s.IsAuthenticated:
		return RedirectLogin
	case !s.IsAdmin:
		return RedirectHome
	default:
		return Allow
	}
}

// Target is where a denied request should be sent. Empty for Allow and Wait.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	default:
		return ""
	}
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Wait:
		return "wait"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}
