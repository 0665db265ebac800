package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/api/view"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
	"github.com/tiendamonedas/admin-dashboard/internal/core/service"
)

const imageField = "imagen"

// CatalogHandler serves /admin/servicios and /admin/imagenes.
type CatalogHandler struct {
	services ports.CatalogClient
	images   ports.ImageUploader
	log      zerolog.Logger
}

func NewCatalogHandler(services ports.CatalogClient, images ports.ImageUploader, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{services: services, images: images, log: log}
}

type servicesPage struct {
	Search        string
	Services      []domain.Service
	Dialog        service.Dialog
	Selected      *domain.Service
	Form          serviceForm
	ConfirmPrompt string
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

func (h *CatalogHandler) mount(c echo.Context) *service.Catalog {
	cat := service.NewCatalog(h.services, h.images, h.log)
	_ = cat.Refresh(c.Request().Context())
	return cat
}

// List handles GET /admin/servicios?q=&dialog=&id=.
func (h *CatalogHandler) List(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "parámetros inválidos")
	}

	cat := h.mount(c)
	cat.Open(service.Dialog(q.Dialog), q.ID)

	form := serviceForm{Active: true}
	if s, ok := cat.Selected(); ok {
		form = serviceFormFrom(s)
	}
	return h.render(c, http.StatusOK, cat, q.Search, form, nil)
}

// Create handles POST /admin/servicios. An attached image is uploaded first
// and replaces imgUrl.
func (h *CatalogHandler) Create(c echo.Context) error {
	var form serviceForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	cat := h.mount(c)
	cat.Open(service.DialogCreate, "")

	err := h.prepare(c, cat, &form)
	if err == nil {
		err = cat.Create(c.Request().Context(), form.createInput())
	}
	if err == nil {
		form = serviceForm{Active: true}
	}
	return h.render(c, actionStatus(err), cat, "", form, err)
}

// Update handles POST /admin/servicios/:id.
func (h *CatalogHandler) Update(c echo.Context) error {
	var form serviceForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	id := c.Param("id")
	cat := h.mount(c)
	cat.Open(service.DialogEdit, id)

	err := h.prepare(c, cat, &form)
	if err == nil {
		err = cat.Update(c.Request().Context(), id, form.updateInput())
	}
	return h.render(c, actionStatus(err), cat, "", form, err)
}

// Delete handles POST /admin/servicios/:id/eliminar. The form must carry
// confirmar=true.
func (h *CatalogHandler) Delete(c echo.Context) error {
	var form deleteServiceForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	id := c.Param("id")
	cat := h.mount(c)
	cat.Open(service.DialogDelete, id)

	err := cat.Delete(c.Request().Context(), id, form.Confirm)
	return h.render(c, actionStatus(err), cat, "", serviceForm{}, nil)
}

// UploadImage handles POST /admin/imagenes and answers {"secure_url": …}.
func (h *CatalogHandler) UploadImage(c echo.Context) error {
	fh, err := c.FormFile(imageField)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Selecciona una imagen.")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No se pudo leer la imagen.")
	}
	defer f.Close()

	cat := service.NewCatalog(h.services, h.images, h.log)
	url, err := cat.UploadImage(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, uploadResponse{SecureURL: url})
}

// prepare validates the form and uploads the attached image, if any.
func (h *CatalogHandler) prepare(c echo.Context, cat *service.Catalog, form *serviceForm) error {
	if err := c.Validate(form); err != nil {
		return err
	}

	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	if err != nil {
		return domain.Invalid("No se pudo leer la imagen.")
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Invalid("No se pudo leer la imagen.")
	}
	defer f.Close()

	url, err := cat.UploadImage(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return err
	}
	form.ImageURL = url
	return nil
}

// render shows the page. formErr carries a failure raised before the catalog
// ran (form validation), which has no notice of its own yet.
func (h *CatalogHandler) render(c echo.Context, status int, cat *service.Catalog, search string, form serviceForm, formErr error) error {
	notices := cat.Notices()
	if formErr != nil && len(notices) == 0 {
		notices = append(notices, domain.Notice{Level: domain.NoticeError, Text: domain.UserMessage(formErr, "Formulario inválido.")})
	}

	data := servicesPage{
		Search:        search,
		Services:      cat.Search(search),
		Dialog:        cat.Dialog(),
		Form:          form,
		ConfirmPrompt: service.DeleteConfirmPrompt,
	}
	if s, ok := cat.Selected(); ok {
		data.Selected = &s
	}
	return c.Render(status, view.PageServices, newPage(c, "Servicios", "servicios", notices, data))
}
