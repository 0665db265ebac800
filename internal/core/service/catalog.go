package service

import (
	"context"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
)

const (
	msgServicesLoadFailed   = "Error al cargar los servicios."
	msgServiceCreated       = "¡Servicio creado exitosamente!"
	msgServiceCreateFailed  = "Error al crear el servicio."
	msgServiceUpdated       = "Servicio actualizado exitosamente!"
	msgServiceUpdateFailed  = "Error al actualizar el servicio."
	msgServiceDeleted       = "Servicio eliminado correctamente."
	msgServiceDeleteFailed  = "Error al eliminar el servicio."
	msgServiceNameRequired  = "El nombre del servicio es obligatorio."
	msgServiceNegative      = "El precio y el tiempo de espera no pueden ser negativos."
	msgDeleteNotConfirmed   = "Confirma la eliminación del servicio."
	msgImageUploadFailed    = "Error al subir la imagen."
	msgImageUploaded        = "Imagen subida correctamente."
	msgImageNameNotProvided = "Selecciona una imagen."
)

// DeleteConfirmPrompt is the question the delete dialog asks.
const DeleteConfirmPrompt = "¿Estás seguro de que quieres eliminar este servicio? Esta acción es irreversible."

// Catalog is the state of one services page.
type Catalog struct {
	services ports.CatalogClient
	images   ports.ImageUploader
	log      zerolog.Logger
	policy   *bluemonday.Policy
	collator *collate.Collator

	list     []domain.Service
	dialog   Dialog
	selected string
	notices  domain.Notices
}

func NewCatalog(services ports.CatalogClient, images ports.ImageUploader, log zerolog.Logger) *Catalog {
	return &Catalog{
		services: services,
		images:   images,
		log:      log.With().Str("component", "catalog").Logger(),
		policy:   bluemonday.StrictPolicy(),
		collator: collate.New(language.Spanish, collate.IgnoreCase),
	}
}

// Refresh replaces the list, sorted by name in Spanish collation order.
func (c *Catalog) Refresh(ctx context.Context) error {
	services, err := c.services.List(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("list services failed")
		c.notices.Error(domain.UserMessage(err, msgServicesLoadFailed))
		return err
	}
	sort.SliceStable(services, func(i, j int) bool {
		return c.collator.CompareString(services[i].Name, services[j].Name) < 0
	})
	c.list = services
	return nil
}

func (c *Catalog) Services() []domain.Service {
	return append([]domain.Service(nil), c.list...)
}

// Search filters by name, case-insensitively, keeping the sort order.
func (c *Catalog) Search(term string) []domain.Service {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return c.Services()
	}
	var out []domain.Service
	for _, s := range c.list {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) Find(id string) (domain.Service, bool) {
	for _, s := range c.list {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Service{}, false
}

// Open opens the named dialog for service id; unknown names close it.
func (c *Catalog) Open(dlg Dialog, id string) {
	switch dlg {
	case DialogCreate, DialogEdit, DialogDelete:
		c.dialog, c.selected = dlg, id
	default:
		c.CloseDialog()
	}
}

func (c *Catalog) CloseDialog()   { c.dialog, c.selected = DialogNone, "" }
func (c *Catalog) Dialog() Dialog { return c.dialog }

func (c *Catalog) Selected() (domain.Service, bool) {
	if c.selected == "" {
		return domain.Service{}, false
	}
	return c.Find(c.selected)
}

func (c *Catalog) Notices() []domain.Notice { return c.notices.Drain() }

func (c *Catalog) Create(ctx context.Context, in domain.CreateServiceInput) error {
	in.Name = c.plain(in.Name)
	in.Description = c.plain(in.Description)
	if in.Name == "" {
		return c.refuse(domain.Invalid(msgServiceNameRequired))
	}
	if in.PriceCoins < 0 || in.WaitMinutes < 0 {
		return c.refuse(domain.Invalid(msgServiceNegative))
	}
	return c.act(ctx, msgServiceCreated, msgServiceCreateFailed, func(ctx context.Context) error {
		_, err := c.services.Create(ctx, in)
		return err
	})
}

// Update sends the set fields of in to service id.
func (c *Catalog) Update(ctx context.Context, id string, in domain.UpdateServiceInput) error {
	if in.Name != nil {
		name := c.plain(*in.Name)
		if name == "" {
			return c.refuse(domain.Invalid(msgServiceNameRequired))
		}
		in.Name = &name
	}
	if in.Description != nil {
		desc := c.plain(*in.Description)
		in.Description = &desc
	}
	if (in.PriceCoins != nil && *in.PriceCoins < 0) || (in.WaitMinutes != nil && *in.WaitMinutes < 0) {
		return c.refuse(domain.Invalid(msgServiceNegative))
	}
	return c.act(ctx, msgServiceUpdated, msgServiceUpdateFailed, func(ctx context.Context) error {
		_, err := c.services.Update(ctx, id, in)
		return err
	})
}

// Delete removes service id once confirmed is true.
func (c *Catalog) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return c.refuse(domain.Invalid(msgDeleteNotConfirmed))
	}
	return c.act(ctx, msgServiceDeleted, msgServiceDeleteFailed, func(ctx context.Context) error {
		return c.services.Delete(ctx, id)
	})
}

// UploadImage stores the file with the image host and returns its URL.
func (c *Catalog) UploadImage(ctx context.Context, filename string, body io.Reader) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", c.refuse(domain.Invalid(msgImageNameNotProvided))
	}
	url, err := c.images.Upload(ctx, filename, body)
	if err != nil {
		c.log.Warn().Err(err).Str("filename", filename).Msg("image upload failed")
		c.notices.Error(domain.UserMessage(err, msgImageUploadFailed))
		return "", err
	}
	c.notices.Success(msgImageUploaded)
	return url, nil
}

// plain strips markup and surrounding whitespace. The strict policy escapes
// entities, which the API would store verbatim, so they are decoded back.
func (c *Catalog) plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(s)))
}

func (c *Catalog) act(ctx context.Context, successMsg, fallback string, call func(context.Context) error) error {
	if err := call(ctx); err != nil {
		c.log.Warn().Err(err).Str("service_id", c.selected).Msg("service action failed")
		c.notices.Error(domain.UserMessage(err, fallback))
		return err
	}
	c.notices.Success(successMsg)
	c.CloseDialog()
	_ = c.Refresh(ctx)
	return nil
}

func (c *Catalog) refuse(f *domain.Failure) error {
	c.notices.Error(f.Message)
	return f
}
