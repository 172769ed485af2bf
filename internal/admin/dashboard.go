package admin

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"VIP-Telegram-bot/internal/db"
	"VIP-Telegram-bot/internal/security"
	"VIP-Telegram-bot/internal/services"
)

// Dashboard serves the admin web API: stats, security counters, payment
// listings and the Prometheus endpoint. The React frontend consumes the
// JSON; CSV export mirrors the dashboard's download buttons.
type Dashboard struct {
	Guard        *security.Guard
	Sessions     *services.SessionTracker
	User         string
	PasswordHash string // bcrypt; empty disables the authed routes
}

func (d *Dashboard) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(d.basicAuth)
		api.Get("/stats", d.handleStats)
		api.Get("/security", d.handleSecurity)
		api.Get("/payments", d.handlePayments)
		api.Get("/payments.csv", d.handlePaymentsCSV)
	})

	return r
}

// basicAuth проверяет basic auth по bcrypt-хэшу из конфигурации.
func (d *Dashboard) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d.PasswordHash == "" {
			http.Error(w, "dashboard API disabled", http.StatusForbidden)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != d.User ||
			bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="dashboard"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (d *Dashboard) handleStats(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()
	writeJSON(w, map[string]interface{}{
		"users":                db.CountUsers(),
		"vip_users":            db.CountVIPUsers(),
		"active_subscriptions": db.CountActiveSubscriptions(),
		"revenue_today":        db.SumPayments(now.Truncate(24*time.Hour), now),
		"revenue_30d":          db.SumPayments(now.AddDate(0, 0, -30), now),
		"live_sessions":        d.Sessions.Count(),
	})
}

func (d *Dashboard) handleSecurity(w http.ResponseWriter, _ *http.Request) {
	st := d.Guard.Stats()
	writeJSON(w, map[string]interface{}{
		"total_events":     st.TotalEvents,
		"blocked_requests": st.BlockedRequests,
		"suspicious_users": st.SuspiciousUsers,
		"store_entries":    st.StoreEntries,
		"last_cleanup":     st.LastCleanup.Format(time.RFC3339),
	})
}

func paymentsRange(r *http.Request) (time.Time, time.Time) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := r.URL.Query().Get("days"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			from = to.AddDate(0, 0, -days)
		}
	}
	return from, to
}

func (d *Dashboard) handlePayments(w http.ResponseWriter, r *http.Request) {
	from, to := paymentsRange(r)
	writeJSON(w, db.GetPayments(from, to))
}

func (d *Dashboard) handlePaymentsCSV(w http.ResponseWriter, r *http.Request) {
	from, to := paymentsRange(r)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payments.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "user_id", "plan_id", "reference", "amount", "currency", "status", "created_at"})
	for _, p := range db.GetPayments(from, to) {
		cw.Write([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			strconv.FormatUint(uint64(p.UserID), 10),
			strconv.FormatUint(uint64(p.PlanID), 10),
			p.ReferenceID,
			strconv.Itoa(p.Amount),
			p.Currency,
			p.Status,
			time.Unix(p.CreatedAt, 0).Format(time.RFC3339),
		})
	}
	cw.Flush()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
