package user

import "strings"

// state is everything the session store persists under its snapshot name.
type state struct {
	User               *User                 `json:"user"`
	IsAuthenticated    bool                  `json:"is_authenticated"`
	Accounts           []account             `json:"users"`
	VerificationTokens map[string]string     `json:"verification_tokens"`
	ResetTokens        map[string]resetToken `json:"reset_tokens"`
}

func (st *state) init() {
	if st.VerificationTokens == nil {
		st.VerificationTokens = make(map[string]string)
	}
	if st.ResetTokens == nil {
		st.ResetTokens = make(map[string]resetToken)
	}
	if !st.IsAuthenticated {
		st.User = nil
	}
}

func (st *state) setSession(usr *User) {
	if usr == nil {
		st.User = nil
		st.IsAuthenticated = false
		return
	}
	u := *usr
	st.User = &u
	st.IsAuthenticated = true
}

func (st *state) findByID(id string) *account {
	if id == "" {
		return nil
	}
	for i := range st.Accounts {
		if st.Accounts[i].User.ID == id {
			return &st.Accounts[i]
		}
	}
	return nil
}

func (st *state) findByEmail(email string) *account {
	if email == "" {
		return nil
	}
	for i := range st.Accounts {
		if st.Accounts[i].User.Email == email {
			return &st.Accounts[i]
		}
	}
	return nil
}

// forEmail calls fn on every account registered with email.
func (st *state) forEmail(email string, fn func(acc *account)) int {
	var n int
	for i := range st.Accounts {
		if st.Accounts[i].User.Email == email {
			fn(&st.Accounts[i])
			n++
		}
	}
	return n
}

func (st *state) users() []User {
	users := make([]User, 0, len(st.Accounts))
	for _, acc := range st.Accounts {
		users = append(users, acc.User)
	}
	return users
}

// filter applies AND operation on available QueryFilter fields.
// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
func (st *state) filter(filter QueryFilter) []User {
	users := st.users()

	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		var filtered []User
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Email), search) ||
				strings.Contains(strings.ToLower(u.Name), search) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	// users with any of the specified roles
	if users != nil && len(filter.Roles) > 0 {
		var filtered []User
		for _, u := range users {
			for _, r := range filter.Roles {
				if u.Role == r {
					filtered = append(filtered, u)
					break
				}
			}
		}
		users = filtered
	}
	if users != nil && filter.Verified != nil {
		var filtered []User
		for _, u := range users {
			if u.EmailVerified == *filter.Verified {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	return users
}
