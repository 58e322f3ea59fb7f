package user

import (
	"context"
	"net/mail"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound              = errors.New("user not found")
	ErrEmailExists           = errors.New("a user with this email already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailNotVerified      = errors.New("please verify your email before logging in")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrInvalidToken          = errors.New("invalid token")

	// errUnchanged is returned by a mutation that left the state untouched; nothing gets saved.
	errUnchanged = errors.New("state unchanged")
)

// Service is the session store: it owns the current session, the user registry
// and the email verification & password reset tokens.
// The whole state is saved as one snapshot after every mutation.
type Service struct {
	mu sync.Mutex
	st state

	store    core.SnapshotStore
	snapshot string
	mailSvc  core.EmailService
	logger   core.Logger
	validate *validator.Validate

	resetTimeout time.Duration
	hashCost     int
	now          func() time.Time // mockable
}

// NewService loads the session store from its snapshot (if any).
func NewService(
	ctx context.Context,
	store core.SnapshotStore,
	mailSvc core.EmailService,
	logger core.Logger,
	validate *validator.Validate,
	conf *core.Config,
) (*Service, error) {
	svc := &Service{
		store:        store,
		snapshot:     conf.Storage.AuthSnapshot,
		mailSvc:      mailSvc,
		logger:       logger,
		validate:     validate,
		resetTimeout: conf.PasswordResetTimeout,
		hashCost:     conf.PasswordHashCost,
		now:          time.Now,
	}
	if svc.snapshot == "" {
		svc.snapshot = "auth-storage"
	}
	if svc.resetTimeout <= 0 {
		svc.resetTimeout = time.Hour
	}
	if svc.hashCost < bcrypt.MinCost || svc.hashCost > bcrypt.MaxCost {
		svc.hashCost = bcrypt.DefaultCost
	}

	if err := store.Load(ctx, svc.snapshot, &svc.st); err != nil && !errors.Is(err, core.ErrSnapshotNotFound) {
		return nil, errors.Wrap(err, "loading session snapshot")
	}
	svc.st.init()
	return svc, nil
}

// mutate runs fn on the state then saves the snapshot, unless fn failed or returned errUnchanged.
func (svc *Service) mutate(ctx context.Context, fn func(st *state) error) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := fn(&svc.st); err != nil {
		if err == errUnchanged {
			return nil
		}
		return err
	}
	return svc.persist(ctx)
}

func (svc *Service) persist(ctx context.Context) error {
	if err := svc.store.Save(ctx, svc.snapshot, svc.st); err != nil {
		pErr := &core.PersistError{Snapshot: svc.snapshot, Err: err}
		svc.logger.Error("could not save the session store", pErr)
		return pErr
	}
	return nil
}

func (svc *Service) read(fn func(st *state)) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	fn(&svc.st)
}

// Login opens a session for the verified user matching email & password.
func (svc *Service) Login(ctx context.Context, email, password string) (User, error) {
	creds := Credentials{Email: core.CleanString(email, true /* lower */), Password: password}
	if err := svc.validate.Struct(creds); err != nil {
		return User{}, err
	}

	var usr User
	err := svc.mutate(ctx, func(st *state) error {
		acc := st.findByEmail(creds.Email)
		if acc == nil || acc.CheckPassword(creds.Password) != nil {
			return ErrInvalidCredentials
		}
		if !acc.User.EmailVerified {
			return ErrEmailNotVerified
		}
		acc.User.LastLogin = svc.now().UTC()
		usr = acc.User
		st.setSession(&usr)
		return nil
	})
	if err != nil && !core.IsPersistError(err) {
		return User{}, err
	}
	return usr, err
}

// Logout closes the current session, if any.
func (svc *Service) Logout(ctx context.Context) error {
	return svc.mutate(ctx, func(st *state) error {
		st.setSession(nil)
		return nil
	})
}

// Signup registers a new unverified user and mails them a verification token.
// It does not open a session.
func (svc *Service) Signup(ctx context.Context, nu NewUser) (User, error) {
	nu.Clean()
	if err := svc.validate.Struct(nu); err != nil {
		return User{}, err
	}

	now := svc.now().UTC()
	acc := account{
		User: User{
			ID:        uuid.New().String(),
			Name:      nu.Name,
			Email:     nu.Email,
			Role:      nu.Role,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	hash, err := hashPassword(nu.Password, svc.hashCost)
	if err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	acc.PasswordHash = hash

	var token string
	err = svc.mutate(ctx, func(st *state) error {
		if st.findByEmail(acc.User.Email) != nil {
			return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		var err error
		if token, err = st.issueVerificationToken(acc.User.Email); err != nil {
			return errors.Wrap(err, "issuing verification token")
		}
		st.Accounts = append(st.Accounts, acc)
		return nil
	})
	if err != nil && !core.IsPersistError(err) {
		return User{}, err
	}

	svc.sendVerificationMail(acc.User, token)
	return acc.User, err
}

// RequestPasswordReset mails a password reset token if a user is registered with email.
// Unknown emails are not reported to the caller.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = core.CleanString(email, true /* lower */)

	var usr *User
	var token string
	err := svc.mutate(ctx, func(st *state) error {
		acc := st.findByEmail(email)
		if acc == nil {
			return errUnchanged
		}
		var err error
		if token, err = st.issueResetToken(email, svc.now().Add(svc.resetTimeout)); err != nil {
			return errors.Wrap(err, "issuing reset token")
		}
		u := acc.User
		usr = &u
		return nil
	})
	if usr != nil {
		svc.sendPasswordResetMail(*usr, token)
	}
	return err
}

// ResetPassword sets a new password using a reset token, then consumes the token.
// The token is checked before the password policy.
func (svc *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	data := ResetUserPassword{Token: token, Password: newPassword}

	return svc.mutate(ctx, func(st *state) error {
		rt, ok := st.ResetTokens[data.Token]
		if !ok || rt.expired(svc.now()) {
			return ErrInvalidOrExpiredToken
		}
		if err := svc.validate.Struct(data); err != nil {
			return err
		}
		hash, err := hashPassword(data.Password, svc.hashCost)
		if err != nil {
			return errors.Wrap(err, "hashing password")
		}

		now := svc.now().UTC()
		st.forEmail(rt.Email, func(acc *account) {
			acc.PasswordHash = hash
			acc.User.UpdatedAt = now
		})
		delete(st.ResetTokens, data.Token)
		return nil
	})
}

// VerifyEmail marks the email bound to token as verified, then consumes the token.
func (svc *Service) VerifyEmail(ctx context.Context, token string) error {
	return svc.mutate(ctx, func(st *state) error {
		email, ok := st.VerificationTokens[token]
		if !ok {
			return ErrInvalidToken
		}
		now := svc.now().UTC()
		st.forEmail(email, func(acc *account) {
			acc.User.EmailVerified = true
			acc.User.UpdatedAt = now
		})
		delete(st.VerificationTokens, token)
		return nil
	})
}

// UpdateProfile merges the provided fields into the user's profile.
func (svc *Service) UpdateProfile(ctx context.Context, id string, uu UpdateUser) (User, error) {
	uu.Clean()

	var usr User
	err := svc.mutate(ctx, func(st *state) error {
		acc := st.findByID(id)
		if acc == nil {
			return ErrNotFound
		}
		if uu.Email != "" && uu.Email != acc.User.Email {
			if st.findByEmail(uu.Email) != nil {
				return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
			}
			acc.User.Email = uu.Email
		}
		if uu.Name != "" {
			acc.User.Name = uu.Name
		}
		if uu.Role != "" {
			acc.User.Role = uu.Role
		}
		acc.User.UpdatedAt = svc.now().UTC()
		usr = acc.User

		// keep the session in sync
		if st.IsAuthenticated && st.User != nil && st.User.ID == id {
			st.setSession(&usr)
		}
		return nil
	})
	if err != nil && !core.IsPersistError(err) {
		return User{}, err
	}
	return usr, err
}

// SetPassword overwrites a user's password without a reset token.
func (svc *Service) SetPassword(ctx context.Context, email, pwd string) error {
	data := ResetUserPassword{Password: pwd}
	if err := svc.validate.Struct(data); err != nil {
		return err
	}
	hash, err := hashPassword(pwd, svc.hashCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	email = core.CleanString(email, true /* lower */)

	return svc.mutate(ctx, func(st *state) error {
		now := svc.now().UTC()
		n := st.forEmail(email, func(acc *account) {
			acc.PasswordHash = hash
			acc.User.UpdatedAt = now
		})
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MarkEmailVerified verifies a user's email without a verification token.
func (svc *Service) MarkEmailVerified(ctx context.Context, email string) error {
	email = core.CleanString(email, true /* lower */)

	return svc.mutate(ctx, func(st *state) error {
		now := svc.now().UTC()
		n := st.forEmail(email, func(acc *account) {
			acc.User.EmailVerified = true
			acc.User.UpdatedAt = now
		})
		if n == 0 {
			return ErrNotFound
		}
		for token, tEmail := range st.VerificationTokens {
			if tEmail == email {
				delete(st.VerificationTokens, token)
			}
		}
		return nil
	})
}

// CurrentUser returns the logged in user, if any.
func (svc *Service) CurrentUser() (usr User, ok bool) {
	svc.read(func(st *state) {
		if st.IsAuthenticated && st.User != nil {
			usr, ok = *st.User, true
		}
	})
	return usr, ok
}

func (svc *Service) IsAuthenticated() bool {
	_, ok := svc.CurrentUser()
	return ok
}

func (svc *Service) GetByID(id string) (usr User, err error) {
	svc.read(func(st *state) {
		if acc := st.findByID(id); acc != nil {
			usr = acc.User
			return
		}
		err = ErrNotFound
	})
	return usr, err
}

func (svc *Service) GetByEmail(email string) (usr User, err error) {
	email = core.CleanString(email, true /* lower */)
	svc.read(func(st *state) {
		if acc := st.findByEmail(email); acc != nil {
			usr = acc.User
			return
		}
		err = ErrNotFound
	})
	return usr, err
}

// Query lists the registered users matching filter, in registration order.
func (svc *Service) Query(filter QueryFilter) (users []User) {
	filter.Clean()
	svc.read(func(st *state) {
		users = st.filter(filter)
	})
	return users
}

func (svc *Service) sendVerificationMail(usr User, token string) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Verify your email address",
		TemplateName: "verify_email",
		TemplateData: MailData{Name: usr.Name, Token: token},
	})
}

func (svc *Service) sendPasswordResetMail(usr User, token string) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: MailData{Name: usr.Name, Token: token, ValidFor: svc.resetTimeout.String()},
	})
}
