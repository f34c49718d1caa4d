package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hungertracker/hungerd/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Profiles      ProfileStore
	Sessions      SessionManager
	Verifier      PhoneVerifier
	Friends       FriendStore
	Posts         PostStore
	Locations     LocationStore
	Notifications NotificationStore
	Notify        Notifier
	Images        ImageStore
	AuthLimiter   RateLimiter
	Registry      *prometheus.Registry
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	authH := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Verifier: deps.Verifier, Limiter: deps.AuthLimiter}
	verification := VerificationHandler{Users: deps.Users, Sessions: deps.Sessions, Verifier: deps.Verifier, Limiter: deps.AuthLimiter}
	profiles := ProfileHandler{Users: deps.Users, Profiles: deps.Profiles, Images: deps.Images, Notify: deps.Notify}
	friends := FriendHandler{Friends: deps.Friends, Users: deps.Users, Notify: deps.Notify}
	posts := PostHandler{Posts: deps.Posts, Profiles: deps.Profiles, Users: deps.Users, Images: deps.Images, Notify: deps.Notify}
	locations := LocationHandler{Locations: deps.Locations, Friends: deps.Friends}
	notifications := NotificationHandler{Notifications: deps.Notifications}

	requireAuth := middleware.RequireAuth(deps.Sessions)

	mux.HandleFunc("/healthz", health.Handle)
	if deps.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("/api/v1/auth/token", authH.Token)
	mux.HandleFunc("/api/v1/auth/refresh", authH.Refresh)
	mux.HandleFunc("/api/v1/auth/logout", authH.Logout)
	mux.HandleFunc("/api/v1/auth/register", authH.Register)
	mux.HandleFunc("/api/v1/auth/phone/request-verification", verification.RequestCode)
	mux.HandleFunc("/api/v1/auth/phone/verify", verification.VerifyCode)

	mux.Handle("/api/v1/profiles/me", requireAuth(http.HandlerFunc(profiles.Me)))
	mux.Handle("/api/v1/profiles/me/image", requireAuth(http.HandlerFunc(profiles.UploadImage)))
	mux.Handle("/api/v1/profiles/me/hungry", requireAuth(http.HandlerFunc(profiles.ToggleHungry)))

	mux.Handle("/api/v1/friends", requireAuth(http.HandlerFunc(friends.List)))
	mux.Handle("/api/v1/friends/request", requireAuth(http.HandlerFunc(friends.Request)))
	mux.Handle("/api/v1/friends/respond", requireAuth(http.HandlerFunc(friends.Respond)))

	mux.Handle("/api/v1/posts", requireAuth(http.HandlerFunc(posts.Handle)))
	mux.Handle("/api/v1/posts/{id}/comments", requireAuth(http.HandlerFunc(posts.Comments)))

	mux.Handle("/api/v1/locations/me", requireAuth(http.HandlerFunc(locations.UpdateMine)))
	mux.Handle("/api/v1/locations/me/sharing", requireAuth(http.HandlerFunc(locations.SetSharing)))
	mux.Handle("/api/v1/locations/friends", requireAuth(http.HandlerFunc(locations.FriendLocations)))

	mux.Handle("/api/v1/notifications", requireAuth(http.HandlerFunc(notifications.List)))
	mux.Handle("/api/v1/notifications/{id}/read", requireAuth(http.HandlerFunc(notifications.MarkRead)))
}
