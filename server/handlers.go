package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-bizcuit-gateway/bizcuit"
	"github.com/rs/zerolog/log"
)

const (
	authSuccessHTML = `
		<h1>Uw verzoek is succesvol verwerkt</h1>
		<p>U ontvangt per mail een code om het verzoek te bevestigen</p>
		<p>U kunt dit venster nu sluiten en het verzoek verder afhandelen in Boekhoud Source</p>
	`
	authFailureHTML = `
		<h1>Uw verzoek kon helaas niet worden verwerkt</h1>
		<p>Verdere verwerking is afgebroken</p>
	`
)

// AuthHandler starts a new download request and returns the Bizcuit consent
// URL together with the request ID.
func (s *Server) AuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		started, err := s.bizcuit.StartRequest()
		if err != nil {
			log.Err(err).Msg("failed to start bizcuit request")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to start request"})
			return
		}

		_ = json.NewEncoder(w).Encode(started)
	}
}

// AuthResponseHandler handles the consent redirect from Bizcuit. The state
// parameter carries the request ID; on success a pincode is mailed to the
// account holder.
func (s *Server) AuthResponseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")

		if code != "" && state != "" {
			err := s.bizcuit.ReceiveCode(r.Context(), state, code)
			if err == nil {
				fmt.Fprint(w, authSuccessHTML)
				return
			}
			log.Err(err).Msg("consent callback rejected")
		}

		fmt.Fprint(w, authFailureHTML)
	}
}

// TransactionsHandler verifies the pincode and streams the bank transactions.
// A request is one-try only, and an unknown request ID and a wrong pincode
// are reported identically so the response reveals nothing to a brute-force
// attempt.
func (s *Server) TransactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		query := r.URL.Query()
		requestID := query.Get("requestId")
		pincode := query.Get("pincode")

		if requestID != "" && pincode != "" {
			paginator, err := s.bizcuit.ConsumeRequest(r.Context(), requestID, pincode, resumeCursors(query))
			if err == nil {
				writeTransactions(r.Context(), w, paginator)
				return
			}
			log.Err(err).Msg("transactions request rejected")
		}

		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Request not found or invalid pincode"})
	}
}

// resumeCursors collects the per-IBAN resume parameters. Every query
// parameter besides the request identification is treated as
// "IBAN=last entry reference".
func resumeCursors(query url.Values) map[string]string {
	cursors := make(map[string]string)
	for key := range query {
		if key == "requestId" || key == "pincode" {
			continue
		}
		cursors[key] = query.Get(key)
	}
	return cursors
}

// writeTransactions streams the batches as a JSON array, one element per
// fetched page, flushing after every batch so the caller receives data while
// pagination is still in progress.
func writeTransactions(ctx context.Context, w http.ResponseWriter, paginator *bizcuit.Paginator) {
	flusher, _ := w.(http.Flusher)

	_, _ = io.WriteString(w, "[")
	first := true

	err := paginator.Each(ctx, func(batch bizcuit.TransactionBatch) error {
		if !first {
			_, _ = io.WriteString(w, ",")
		}
		first = false

		encoded, err := json.Marshal(batch)
		if err != nil {
			return err
		}
		if _, err := w.Write(encoded); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		log.Err(err).Msg("transaction stream aborted")
	}

	_, _ = io.WriteString(w, "]")
}
