package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 基于标准库 http.ServeMux 的薄封装
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	return r
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterHousekeepingRoutes 编排器入口
func (r *Router) RegisterHousekeepingRoutes(h *HousekeepingHandler) {
	r.Handle("/housekeeping", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Assign(w, req)
	})

	// housekeeping/{cycle_id}（取消未执行的延迟阶段）
	r.Handle("/housekeeping/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		cycleID := strings.TrimPrefix(req.URL.Path, "/housekeeping/")
		if cycleID == "" || strings.Contains(cycleID, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.Cancel(w, req, cycleID)
	})
}

// RegisterRoomRoutes Room Registry
func (r *Router) RegisterRoomRoutes(h *RoomsHandler) {
	r.Handle("/room", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.List(w, req)
	})

	r.Handle("/room/create", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Create(w, req)
	})

	// room/{room_id} 与 room/{room_id}/status
	r.Handle("/room/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/room/")
		if rest == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if roomID, ok := strings.CutSuffix(rest, "/status"); ok {
			if req.Method != http.MethodPut {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.UpdateStatus(w, req, roomID)
			return
		}
		if strings.Contains(rest, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Get(w, req, rest)
	})
}

// RegisterHousekeeperRoutes Housekeeper Registry
func (r *Router) RegisterHousekeeperRoutes(h *HousekeepersHandler) {
	r.Handle("/housekeeper", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/housekeeper/floor/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		floor := strings.TrimPrefix(req.URL.Path, "/housekeeper/floor/")
		h.GetByFloor(w, req, floor)
	})
}

// RegisterRosterRoutes Roster Ledger
func (r *Router) RegisterRosterRoutes(h *RosterHandler) {
	r.Handle("/roster/new", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Add(w, req)
	})

	// roster/{date}、roster/{date}/export、roster/{date}/{room_id}
	r.Handle("/roster/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/roster/")
		if rest == "" || rest == "new" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		parts := strings.SplitN(rest, "/", 2)
		date := parts[0]

		if len(parts) == 1 {
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.ByDate(w, req, date)
			return
		}

		switch {
		case parts[1] == "export":
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.Export(w, req, date)
		case !strings.Contains(parts[1], "/"):
			switch req.Method {
			case http.MethodPut:
				h.SetCompleted(w, req, date, parts[1])
			case http.MethodDelete:
				h.Delete(w, req, date, parts[1])
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}
