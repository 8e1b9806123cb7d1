package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shabeb-irshed/portal/internal/models"
	"github.com/shabeb-irshed/portal/internal/services"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

const timeLayout = time.RFC3339

// writeCooldown answers a throttled request with 429, a Retry-After header
// and the wait rounded for humans
func writeCooldown(w http.ResponseWriter, cooldown *models.CooldownError) {
	w.Header().Set("Retry-After", ceilSeconds(cooldown.Remaining))
	pkghttp.WriteTooManyRequests(w, fmt.Sprintf("You can try again in %s.",
		services.FormatWait(cooldown.Remaining, cooldown.Cooldown)))
}

// ceilSeconds renders d as a Retry-After value, rounding partial seconds up
func ceilSeconds(d time.Duration) string {
	seconds := int64(d / time.Second)
	if d%time.Second != 0 {
		seconds++
	}
	return strconv.FormatInt(seconds, 10)
}

// writeCommonError maps errors shared by every public endpoint.
// It returns false when err is none of them.
func writeCommonError(w http.ResponseWriter, err error) bool {
	var cooldown *models.CooldownError
	switch {
	case errors.As(err, &cooldown):
		writeCooldown(w, cooldown)
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	default:
		return false
	}
	return true
}
