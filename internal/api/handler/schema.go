package handler

import (
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

// loginForm is the body of POST /login. Emptiness is checked by the login
// flow so the message matches the rest of the page.
type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// listQuery carries the query parameters shared by the list pages.
type listQuery struct {
	Search string `query:"q"`
	Dialog string `query:"dialog"`
	ID     string `query:"id"`
	Role   string `query:"rol"`
}

type createUserForm struct {
	Name     string      `form:"nombre"   validate:"required"`
	Email    string      `form:"email"    validate:"required,email"`
	Password string      `form:"password" validate:"omitempty,min=6"`
	Role     domain.Role `form:"rol"      validate:"required,oneof=ADMIN CLIENTE"`
}

func (f createUserForm) input() domain.CreateUserInput {
	return domain.CreateUserInput{Name: f.Name, Email: f.Email, Password: f.Password, Role: f.Role}
}

// rechargeForm leaves the sign check to the directory, which owns the
// message for it.
type rechargeForm struct {
	Amount int `form:"cantidad"`
}

type resetPasswordForm struct {
	NewPassword string `form:"newPassword"`
}

type serviceForm struct {
	Name             string `form:"nombre"              validate:"required"`
	Description      string `form:"descripcion"`
	PriceCoins       int    `form:"precioMonedas"       validate:"gte=0"`
	WaitMinutes      int    `form:"tiempoEsperaMinutos" validate:"gte=0"`
	RequiresDelivery bool   `form:"requiereEntrega"`
	Active           bool   `form:"activo"`
	ImageURL         string `form:"imgUrl"              validate:"omitempty,url"`
}

func (f serviceForm) createInput() domain.CreateServiceInput {
	return domain.CreateServiceInput{
		Name:             f.Name,
		Description:      f.Description,
		PriceCoins:       f.PriceCoins,
		RequiresDelivery: f.RequiresDelivery,
		Active:           f.Active,
		WaitMinutes:      f.WaitMinutes,
		ImageURL:         f.ImageURL,
	}
}

// updateInput sends every field of the edit form; the form always carries
// the full service.
func (f serviceForm) updateInput() domain.UpdateServiceInput {
	return domain.UpdateServiceInput{
		Name:             &f.Name,
		Description:      &f.Description,
		PriceCoins:       &f.PriceCoins,
		RequiresDelivery: &f.RequiresDelivery,
		Active:           &f.Active,
		WaitMinutes:      &f.WaitMinutes,
		ImageURL:         f.ImageURL,
	}
}

func serviceFormFrom(s domain.Service) serviceForm {
	return serviceForm{
		Name:             s.Name,
		Description:      s.Description,
		PriceCoins:       s.PriceCoins,
		WaitMinutes:      int(s.WaitMinutes),
		RequiresDelivery: s.RequiresDelivery,
		Active:           s.Active,
		ImageURL:         s.ImageURL,
	}
}

type statusForm struct {
	Status domain.OrderStatus `form:"nuevoEstado" validate:"required"`
}

type deliveryForm struct {
	Account string `form:"usuarioCuenta"`
	Secret  string `form:"clave"`
	Note    string `form:"nota"`
}

func (f deliveryForm) input() domain.DeliveryInput {
	return domain.DeliveryInput{Account: f.Account, Secret: f.Secret, Note: f.Note}
}

type deleteServiceForm struct {
	Confirm bool `form:"confirmar"`
}
