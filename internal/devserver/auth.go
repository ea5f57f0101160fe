package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const userIDKey contextKey = "user_id"

type credentialsPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "hashing failed")
		return
	}

	s.mu.Lock()
	if _, taken := s.byEmail[in.Email]; taken {
		s.mu.Unlock()
		respondError(w, http.StatusBadRequest, "email already registered")
		return
	}
	if _, taken := s.byUsername[in.Username]; taken {
		s.mu.Unlock()
		respondError(w, http.StatusBadRequest, "username already taken")
		return
	}
	u := &user{
		id:           uuid.NewString(),
		username:     in.Username,
		email:        in.Email,
		passwordHash: hash,
	}
	s.users[u.id] = u
	s.byEmail[u.email] = u.id
	s.byUsername[u.username] = u.id
	s.mu.Unlock()

	s.issueTokens(w, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	id, ok := s.byEmail[in.Email]
	var u *user
	if ok {
		u = s.users[id]
	}
	s.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(in.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.issueTokens(w, u)
}

// issueTokens mints an access JWT and a refresh token and writes the login
// response envelope.
func (s *Server) issueTokens(w http.ResponseWriter, u *user) {
	access, err := s.mintAccessToken(u.id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "token signing failed")
		return
	}

	refresh := uuid.NewString()
	s.mu.Lock()
	s.refreshTok[refresh] = u.id
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{
		"access":  access,
		"refresh": refresh,
		"user":    userPayload{Username: u.username, Email: u.email},
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	userID, ok := s.refreshTok[in.Refresh]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusUnauthorized, "refresh token invalid")
		return
	}

	access, err := s.mintAccessToken(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "token signing failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) mintAccessToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.accessTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *Server) validateAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("sub not found in token")
	}
	return sub, nil
}

// authMiddleware guards the bearer-authenticated routes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "authorization header required")
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}
		userID, err := s.validateAccessToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
