package db

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/laplataremata/remata-engine/internal/auctionerrors"
)

// classify maps a record API error onto the failure taxonomy. The
// backend reports misconfiguration (missing relation), permission and
// auth failures with distinct codes; anything else stays Unknown with
// the raw message attached.
func classify(err error, collection string) error {
	if err == nil {
		return nil
	}
	if f, ok := auctionerrors.AsFailure(err); ok {
		return f
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return auctionerrors.Wrap(auctionerrors.ServiceUnavailable,
			"No se pudo conectar al servicio. Asegúrate de que el servidor esté en ejecución.", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"):
		return auctionerrors.Wrap(auctionerrors.ServiceUnavailable,
			"No se pudo conectar al servicio. Asegúrate de que el servidor esté en ejecución.", err)

	// 42P01: undefined table. The collection does not exist or the
	// backend is misconfigured.
	case strings.Contains(msg, "42p01"),
		strings.Contains(msg, "does not exist"):
		return auctionerrors.Wrap(auctionerrors.NotFound,
			"La colección '"+collection+"' no existe o está mal configurada. Verifica la configuración del servicio.", err)

	// 42501: insufficient privilege, including row-level security
	case strings.Contains(msg, "42501"),
		strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "row-level security"):
		return auctionerrors.Wrap(auctionerrors.Unauthorized,
			"No tienes permisos para acceder a la colección '"+collection+"'.", err)

	case strings.Contains(msg, "jwt"),
		strings.Contains(msg, "invalid token"),
		strings.Contains(msg, "401"):
		return auctionerrors.Wrap(auctionerrors.Unauthenticated,
			"Debes iniciar sesión para realizar esta acción.", err)

	// 23514: check constraint, 22***: data exceptions
	case strings.Contains(msg, "23514"),
		strings.Contains(msg, "violates check constraint"),
		strings.Contains(msg, "invalid input syntax"):
		return auctionerrors.Wrap(auctionerrors.ValidationFailed, err.Error(), err)

	default:
		return auctionerrors.Wrap(auctionerrors.Unknown, err.Error(), err)
	}
}
