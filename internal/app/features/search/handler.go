// internal/app/features/search/handler.go
package search

import (
	"time"

	coursestore "github.com/dalemusser/skillmatch/internal/app/store/courses"
	groupstore "github.com/dalemusser/skillmatch/internal/app/store/groups"
	projectstore "github.com/dalemusser/skillmatch/internal/app/store/projects"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// maxQueryBytes bounds one client message.
	maxQueryBytes = 1024
	// maxHits bounds one results message.
	maxHits = 25

	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	writeWait  = 10 * time.Second
)

// Handler serves live search over a websocket. Each socket owns its own
// list and debouncer.
type Handler struct {
	Courses  *coursestore.Store
	Projects *projectstore.Store
	Groups   *groupstore.Store
	Quiet    time.Duration
	Log      *zap.Logger

	upgrader websocket.Upgrader
}

// NewHandler constructs the live search handler. quiet is the debounce
// period applied to typed queries.
func NewHandler(courses *coursestore.Store, projects *projectstore.Store, groups *groupstore.Store, quiet time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Courses:  courses,
		Projects: projects,
		Groups:   groups,
		Quiet:    quiet,
		Log:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxQueryBytes,
			WriteBufferSize: 4096,
		},
	}
}
