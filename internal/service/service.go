// Package service exposes the consultation pipeline over HTTP. All state is
// carried in an explicit Service value constructed once at startup.
package service

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/zhifalaw/counsel/composer"
	"github.com/zhifalaw/counsel/index"
	"github.com/zhifalaw/counsel/internal/service/conversation"
)

type Service struct {
	index         *index.Index
	composer      *composer.Composer
	conversations *conversation.Log
}

func New(idx *index.Index, cmp *composer.Composer, log *conversation.Log) *Service {
	return &Service{
		index:         idx,
		composer:      cmp,
		conversations: log,
	}
}

func (s *Service) Router() *mux.Router {
	router := mux.NewRouter()

	router.Use(corsMiddleware)

	router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/api/conversations/{id}", s.handleConversation).Methods(http.MethodGet)
	router.HandleFunc("/api/debug/collection-info", s.handleCollectionInfo).Methods(http.MethodGet)

	return router
}

func corsMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h.ServeHTTP(w, r)
	})
}
