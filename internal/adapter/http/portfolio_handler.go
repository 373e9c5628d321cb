package http

import (
	"net/http"

	"pcaf-attribution/internal/domain/quality"
	"pcaf-attribution/internal/usecase/lifecycle"
	"pcaf-attribution/internal/usecase/portfolio"

	"github.com/labstack/echo/v4"
)

type PortfolioHandler struct {
	portfolio *portfolio.Usecase
	lifecycle *lifecycle.Usecase
}

func NewPortfolioHandler(p *portfolio.Usecase, lc *lifecycle.Usecase) *PortfolioHandler {
	return &PortfolioHandler{portfolio: p, lifecycle: lc}
}

func (h *PortfolioHandler) Summary(c echo.Context) error {
	s, err := h.portfolio.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// BatchRecalculate runs synchronously and answers with the run summary,
// including per-loan failures.
func (h *PortfolioHandler) BatchRecalculate(c echo.Context) error {
	var req asOfReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.lifecycle.BatchRecalculate(c.Request().Context(), dateOrZero(req.AsOf))
	if err != nil && res == nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PortfolioHandler) Reset(c echo.Context) error {
	if err := h.lifecycle.Reset(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}

type optionView struct {
	Option quality.Option `json:"option"`
	quality.OptionDetail
}

// Options lists the PCAF option catalogue, best first.
func (h *PortfolioHandler) Options(c echo.Context) error {
	out := make([]optionView, 0, len(quality.Options))
	for _, o := range quality.Options {
		d, _ := quality.Details(o)
		out = append(out, optionView{Option: o, OptionDetail: d})
	}
	return c.JSON(http.StatusOK, out)
}
