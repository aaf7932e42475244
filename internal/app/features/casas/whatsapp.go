// internal/app/features/casas/whatsapp.go
package casas

import (
	"context"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/skip2/go-qrcode"
)

const (
	qrDefaultSize = 256
	qrMaxSize     = 1024
)

// contactTarget picks the number to message: ?to=host or ?to=facilitator2,
// the leader otherwise.
func contactTarget(r *http.Request) string {
	return normalize.QueryParam(r.URL.Query().Get("to"))
}

// ServeWhatsApp returns a wa.me link for the casa's leader (or host /
// facilitator 2) with an optional prefilled ?text=.
// GET /casas/{id}/whatsapp
func (h *Handler) ServeWhatsApp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, ok := h.loadCasa(ctx, w, r)
	if !ok {
		return
	}
	number := c.LeaderPhone
	switch contactTarget(r) {
	case "host":
		number = c.HostPhone
	case "facilitator2":
		number = c.Facilitator2Phone
	}

	link, ok := phone.WhatsAppLink(number, normalize.Text(r.URL.Query().Get("text")))
	if !ok {
		uierrors.NotFound(w, "Telefone não cadastrado.")
		return
	}
	respond.OK(w, map[string]string{"link": link, "phone": phone.Format(number)})
}

// ServeQR renders the leader's WhatsApp link as a PNG QR code.
// ?size= sets the edge in pixels.
// GET /casas/{id}/qr.png
func (h *Handler) ServeQR(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, ok := h.loadCasa(ctx, w, r)
	if !ok {
		return
	}
	link, ok := phone.WhatsAppLink(c.LeaderPhone, normalize.Text(r.URL.Query().Get("text")))
	if !ok {
		uierrors.NotFound(w, "Telefone não cadastrado.")
		return
	}

	size := qrDefaultSize
	if s, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && s > 0 {
		size = min(s, qrMaxSize)
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "encode qr failed", err, "Não foi possível gerar o QR code.")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(png)
}
