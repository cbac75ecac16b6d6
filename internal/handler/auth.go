// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net"
	"net/http"
	"net/mail"
	"strings"

	"github.com/mileusna/useragent"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/geoip"
	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/session"
)

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	base
	geo *geoip.Locator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(d Deps) *AuthHandler {
	return &AuthHandler{base: d.base(), geo: d.GeoIP}
}

// loginPage is the data of auth/login.
type loginPage struct {
	Username string
	Errors   map[string][]string
	Message  string
}

// registerPage is the data of auth/register.
type registerPage struct {
	Form    model.Registration
	Errors  map[string][]string
	Message string
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "auth/login", h.page(r, "Log in", loginPage{}))
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, loginPage{Message: "Invalid form data."})
		return
	}
	creds := model.Credentials{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}

	errs := map[string][]string{}
	if creds.Username == "" {
		errs["username"] = []string{"Username is required."}
	}
	if creds.Password == "" {
		errs["password"] = []string{"Password is required."}
	}
	if len(errs) > 0 {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, loginPage{Username: creds.Username, Errors: errs})
		return
	}

	sess, err := h.store.Login(r.Context(), creds)
	if err != nil {
		h.authFailed(w, r, err, func(status int, msg string, fields map[string][]string) {
			h.renderLogin(w, r, status, loginPage{Username: creds.Username, Errors: fields, Message: msg})
		})
		return
	}

	h.logSignIn(r, "user logged in", sess.Profile)
	http.Redirect(w, r, RouteHome, http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginPage) {
	h.render(w, r, status, "auth/login", h.page(r, "Log in", data))
}

// RegisterForm renders the sign-up page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "auth/register", h.page(r, "Sign up", registerPage{}))
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegister(w, r, http.StatusBadRequest, registerPage{Message: "Invalid form data."})
		return
	}
	reg := model.Registration{
		Username:        strings.TrimSpace(r.FormValue("username")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		FirstName:       strings.TrimSpace(r.FormValue("first_name")),
		LastName:        strings.TrimSpace(r.FormValue("last_name")),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	}

	// Passwords are never echoed back into the form.
	echo := reg
	echo.Password, echo.PasswordConfirm = "", ""

	if errs := validateRegistration(reg); len(errs) > 0 {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, registerPage{Form: echo, Errors: errs})
		return
	}

	sess, err := h.store.Register(r.Context(), reg)
	if err != nil {
		h.authFailed(w, r, err, func(status int, msg string, fields map[string][]string) {
			h.renderRegister(w, r, status, registerPage{Form: echo, Errors: fields, Message: msg})
		})
		return
	}

	h.logSignIn(r, "user registered", sess.Profile)
	h.flash(w, r, RouteHome, "Welcome to Issa Connect!", flashSuccess)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, data registerPage) {
	h.render(w, r, status, "auth/register", h.page(r, "Sign up", data))
}

// Logout handles POST /logout. It succeeds whether or not a session exists.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Logout(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "logout failed", "error", err)
	}
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}

// authFailed shows the backend's messages on the form. Non-field messages
// go to the form message, field messages next to their fields.
func (h *AuthHandler) authFailed(w http.ResponseWriter, r *http.Request, err error, show func(status int, msg string, fields map[string][]string)) {
	var authErr *session.AuthError
	if !errors.As(err, &authErr) {
		h.logger.ErrorContext(r.Context(), "sign-in failed", "error", err)
		show(http.StatusInternalServerError, "Something went wrong. Please try again.", nil)
		return
	}

	fields := make(map[string][]string, len(authErr.Fields))
	for k, v := range authErr.Fields {
		if k != apiclient.NonFieldKey {
			fields[k] = v
		}
	}
	msg := strings.Join(authErr.FieldMessages(apiclient.NonFieldKey), " ")
	if msg == "" && len(fields) == 0 {
		msg = authErr.Message()
	}

	status := http.StatusUnauthorized
	switch {
	case apiclient.IsTransient(err):
		status = http.StatusServiceUnavailable
	case apiclient.IsKind(err, apiclient.KindValidation):
		status = http.StatusUnprocessableEntity
	}
	h.logger.InfoContext(r.Context(), "sign-in rejected", "status", status, "error", err)
	show(status, msg, fields)
}

func (h *AuthHandler) logSignIn(r *http.Request, msg string, p *model.UserProfile) {
	ua := useragent.Parse(r.UserAgent())
	device := "desktop"
	switch {
	case ua.Bot:
		device = "bot"
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	}
	h.logger.InfoContext(r.Context(), msg,
		"user_id", p.ID,
		"username", p.Username,
		"browser", ua.Name,
		"browser_version", ua.Version,
		"os", ua.OS,
		"device", device,
		"country", h.country(r),
	)
}

func (h *AuthHandler) country(r *http.Request) string {
	if h.geo == nil {
		return ""
	}
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return h.geo.Country(ip)
}

func validateRegistration(reg model.Registration) map[string][]string {
	errs := map[string][]string{}
	if reg.Username == "" {
		errs["username"] = []string{"Username is required."}
	}
	if reg.Email == "" {
		errs["email"] = []string{"Email is required."}
	} else if _, err := mail.ParseAddress(reg.Email); err != nil {
		errs["email"] = []string{"Enter a valid email address."}
	}
	if reg.Password == "" {
		errs["password"] = []string{"Password is required."}
	}
	if reg.Password != reg.PasswordConfirm {
		errs["password_confirm"] = []string{"Passwords do not match."}
	}
	return errs
}
