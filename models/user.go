package models

// User as listed by the backend. The password is never read back.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate leaves the password unchanged when it is empty.
type UserUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type LoginResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// FindUserByEmail returns the user with the given email, if any.
func FindUserByEmail(users []User, email string) (User, bool) {
	if email == "" {
		return User{}, false
	}
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}
