package main

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// SetupRoutes configures HTTP routes. auth and stats may be nil.
func SetupRoutes(hub *Hub, auth *Auth, stats *Stats) *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			stats.Incr(keyRejected)
			writeJSON(w, http.StatusServiceUnavailable, ErrorMsg{Msg: "too many connections"})
			return
		}
		subject, err := auth.Admit(r, ip)
		if err != nil {
			stats.Incr(keyRejected)
			hub.log.Debug().Err(err).Str("ip", ip).Msg("admission refused")
			writeJSON(w, http.StatusUnauthorized, ErrorMsg{Msg: "unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Debug().Err(err).Msg("upgrade error")
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip, subject)
		if !hub.post(hubEvent{kind: evRegister, client: client}) {
			hub.TrackDisconnect(ip)
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	})

	// Room listing, JSON by default or msgpack with ?format=msgpack
	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		rooms, err := hub.Rooms(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, ErrorMsg{Msg: "shutting down"})
			return
		}
		if r.URL.Query().Get("format") == "msgpack" {
			data, err := msgpack.Marshal(rooms)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, ErrorMsg{Msg: err.Error()})
				return
			}
			w.Header().Set("Content-Type", "application/msgpack")
			_, _ = w.Write(data)
			return
		}
		writeJSON(w, http.StatusOK, rooms)
	})

	if stats != nil {
		mux.Handle("/metrics", stats)
	}

	return mux
}
