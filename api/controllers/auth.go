package controllers

import (
	"net/http"

	"github.com/Anuragcr07/pharmacare-backend/api/responses"
	"github.com/Anuragcr07/pharmacare-backend/api/validators"
	"github.com/Anuragcr07/pharmacare-backend/internal/auth"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type signupRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	FirstName    string  `json:"first_name" validate:"required,max=100"`
	LastName     string  `json:"last_name" validate:"required,max=100"`
	PharmacyName string  `json:"pharmacy_name" validate:"required,max=200"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthSignup registers an owner account with its pharmacy.
func AuthSignup(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body signupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), auth.SignupInput{
			Email:        body.Email,
			Password:     body.Password,
			FirstName:    body.FirstName,
			LastName:     body.LastName,
			PharmacyName: body.PharmacyName,
			Phone:        body.Phone,
			Address:      body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin exchanges credentials for an access token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginInput{
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthVerifyEmail consumes the verification token from the URL.
func AuthVerifyEmail(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if token == "" {
			err := pkgerrors.New(pkgerrors.CodeValidation, "verification token required")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.VerifyEmail(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
