package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
)

// MinPasswordLength is the shortest password the dashboard sends.
const MinPasswordLength = 6

const (
	msgUsersLoadFailed     = "Error al cargar los usuarios."
	msgUserLoadFailed      = "Error al cargar el usuario."
	msgUserCreated         = "¡Usuario creado exitosamente!"
	msgUserCreateFailed    = "Error al crear el usuario."
	msgRechargeNotPositive = "La cantidad a recargar debe ser mayor que 0."
	msgRechargeFailed      = "Error al recargar monedas."
	msgPasswordTooShort    = "La contraseña debe tener al menos 6 caracteres."
	msgPasswordFailed      = "Error al resetear la contraseña."
	msgUserFieldsRequired  = "Nombre, email y rol son obligatorios."
	msgInvalidEmail        = "El email no es válido."
)

// StrengthLabels names each PasswordStrength score.
var StrengthLabels = [...]string{"Muy Débil", "Débil", "Normal", "Fuerte", "Muy Fuerte"}

// UserPartition is the user list split by role.
type UserPartition struct {
	Clients []domain.User
	Admins  []domain.User
}

// UserDirectory is the state of one users page.
type UserDirectory struct {
	users ports.UserClient
	log   zerolog.Logger

	clientsOnly bool
	list        []domain.User
	dialog      Dialog
	selected    string
	notices     domain.Notices
}

// emailRule checks bare addresses; display-name forms are refused.
var emailRule = validator.New()

func NewUserDirectory(users ports.UserClient, log zerolog.Logger) *UserDirectory {
	return &UserDirectory{users: users, log: log.With().Str("component", "user_directory").Logger()}
}

// ClientsOnly restricts the list to GET /usuarios/clientes.
func (d *UserDirectory) ClientsOnly(only bool) { d.clientsOnly = only }

// Refresh replaces the list. On failure the previous list is kept.
func (d *UserDirectory) Refresh(ctx context.Context) error {
	var (
		users []domain.User
		err   error
	)
	if d.clientsOnly {
		users, err = d.users.ListClients(ctx)
	} else {
		users, err = d.users.List(ctx)
	}
	if err != nil {
		d.log.Warn().Err(err).Msg("list users failed")
		d.notices.Error(domain.UserMessage(err, msgUsersLoadFailed))
		return err
	}
	d.list = users
	return nil
}

func (d *UserDirectory) Users() []domain.User {
	return append([]domain.User(nil), d.list...)
}

// Find returns the listed user with id.
func (d *UserDirectory) Find(id string) (domain.User, bool) {
	for _, u := range d.list {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// Get fetches a single user for the detail page.
func (d *UserDirectory) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := d.users.Get(ctx, id)
	if err != nil {
		d.notices.Error(domain.UserMessage(err, msgUserLoadFailed))
		return nil, err
	}
	return u, nil
}

// Open opens the named dialog for user id; unknown names close it.
func (d *UserDirectory) Open(dlg Dialog, id string) {
	switch dlg {
	case DialogCreate, DialogRecharge, DialogPassword:
		d.dialog, d.selected = dlg, id
	default:
		d.CloseDialog()
	}
}

func (d *UserDirectory) CloseDialog()   { d.dialog, d.selected = DialogNone, "" }
func (d *UserDirectory) Dialog() Dialog { return d.dialog }

func (d *UserDirectory) Selected() (domain.User, bool) {
	if d.selected == "" {
		return domain.User{}, false
	}
	return d.Find(d.selected)
}

func (d *UserDirectory) Notices() []domain.Notice { return d.notices.Drain() }

// Partition filters by search (case-insensitive on name and email) and
// splits the result into clients and administrators.
func (d *UserDirectory) Partition(search string) UserPartition {
	needle := strings.ToLower(strings.TrimSpace(search))

	var p UserPartition
	for _, u := range d.list {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		switch u.Role {
		case domain.RoleClient:
			p.Clients = append(p.Clients, u)
		case domain.RoleAdmin:
			p.Admins = append(p.Admins, u)
		}
	}
	return p
}

// Create validates in and creates the account.
func (d *UserDirectory) Create(ctx context.Context, in domain.CreateUserInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || !in.Role.Valid() {
		return d.refuse(domain.Invalid(msgUserFieldsRequired))
	}
	if err := emailRule.Var(in.Email, "email"); err != nil {
		return d.refuse(domain.Invalid(msgInvalidEmail))
	}
	if in.Password != "" && utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return d.refuse(domain.Invalid(msgPasswordTooShort))
	}

	return d.act(ctx, msgUserCreated, msgUserCreateFailed, func(ctx context.Context) error {
		_, err := d.users.Create(ctx, in)
		return err
	})
}

// Recharge adds amount coins to user id. Non-positive amounts never reach
// the API.
func (d *UserDirectory) Recharge(ctx context.Context, id string, amount int) error {
	if amount <= 0 {
		return d.refuse(domain.Invalid(msgRechargeNotPositive))
	}
	name := d.nameOf(id)
	return d.act(ctx, fmt.Sprintf("Se recargaron %d monedas a %s.", amount, name), msgRechargeFailed, func(ctx context.Context) error {
		_, err := d.users.Recharge(ctx, id, amount)
		return err
	})
}

// ResetPassword sets a new password for user id.
func (d *UserDirectory) ResetPassword(ctx context.Context, id, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return d.refuse(domain.Invalid(msgPasswordTooShort))
	}
	name := d.nameOf(id)
	return d.act(ctx, fmt.Sprintf("¡Contraseña de %s actualizada!", name), msgPasswordFailed, func(ctx context.Context) error {
		return d.users.ResetPassword(ctx, id, password)
	})
}

func (d *UserDirectory) nameOf(id string) string {
	if u, ok := d.Find(id); ok && u.Name != "" {
		return u.Name
	}
	return id
}

func (d *UserDirectory) act(ctx context.Context, successMsg, fallback string, call func(context.Context) error) error {
	if err := call(ctx); err != nil {
		d.log.Warn().Err(err).Str("user_id", d.selected).Msg("user action failed")
		d.notices.Error(domain.UserMessage(err, fallback))
		return err
	}
	d.notices.Success(successMsg)
	d.CloseDialog()
	_ = d.Refresh(ctx)
	return nil
}

func (d *UserDirectory) refuse(f *domain.Failure) error {
	d.notices.Error(f.Message)
	return f
}

// PasswordStrength scores password from 0 to 4: one point each for a length
// of at least 8, mixed case, a digit and a symbol.
func PasswordStrength(password string) int {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	score := 0
	if utf8.RuneCountInString(password) >= 8 {
		score++
	}
	if lower && upper {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}
	return score
}
