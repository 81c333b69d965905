package github

// Account is the subset of a GitHub simple-user object used by followsync
type Account struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	SiteAdmin bool   `json:"site_admin"`
	HTMLURL   string `json:"html_url"`
}

// ProfileURL returns the public profile URL, falling back to the canonical form
func (a Account) ProfileURL() string {
	if a.HTMLURL != "" {
		return a.HTMLURL
	}
	return "https://github.com/" + a.Login
}

// IsOrganization reports whether the account is an organization
func (a Account) IsOrganization() bool {
	return a.Type == "Organization"
}

// IsBot reports whether the account is a GitHub App bot user
func (a Account) IsBot() bool {
	return a.Type == "Bot"
}

// Logins extracts the login of every account, preserving order
func Logins(accounts []Account) []string {
	logins := make([]string, 0, len(accounts))
	for _, a := range accounts {
		logins = append(logins, a.Login)
	}
	return logins
}
