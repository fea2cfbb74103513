// Copyright (C) 2024 Bookvault
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	custodylib "github.com/bookvault/custody-lib"
	"github.com/bookvault/custody-lib/crypto"
	"github.com/bookvault/custody-lib/id"
	"github.com/bookvault/custody-lib/io"
	"github.com/bookvault/custody-lib/log"
	"github.com/bookvault/custody-lib/vault"
)

// Server exposes the custody library over HTTP.
type Server struct {
	custody    custodylib.Custody
	idProvider *id.Standalone
	logger     zerolog.Logger
}

// NewServer creates a Server around the given custody instance and identity
// provider.
func NewServer(custody custodylib.Custody, idProvider *id.Standalone, logger zerolog.Logger) *Server {
	return &Server{custody: custody, idProvider: idProvider, logger: logger}
}

// Router builds the gin engine with all endpoints registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.POST("/users", s.handleCreateUser)
	router.POST("/login", s.handleLogin)

	router.POST("/books", s.handleUploadBook)
	router.GET("/books/:id/locator", s.handleGetLocator)
	router.PUT("/books/:id/locator", s.handleUpdateLocator)
	router.DELETE("/books/:id", s.handleDeleteBook)

	router.GET("/catalogues/:author", s.handleGetCatalogue)
	router.POST("/catalogues/:author/purchase", s.handlePurchase)

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		s.logger.Info().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

var scopeNames = map[string]id.Scope{
	"upload":   id.ScopeUpload,
	"read":     id.ScopeRead,
	"update":   id.ScopeUpdate,
	"delete":   id.ScopeDelete,
	"purchase": id.ScopePurchase,
}

func parseScopes(names []string) (id.Scope, error) {
	scopes := id.ScopeNone
	for _, name := range names {
		scope, ok := scopeNames[strings.ToLower(name)]
		if !ok {
			return id.ScopeNone, errors.New("unknown scope " + name)
		}
		scopes |= scope
	}
	return scopes, nil
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

// handlerLogger returns a logger tagged with the handler's method. Handlers
// add entity ids with the log helpers before using it.
func (s *Server) handlerLogger(ctx *gin.Context) zerolog.Logger {
	logger := s.logger.With().Logger()
	log.WithMethod(&logger, ctx.Request.Method+" "+ctx.FullPath())
	return logger
}

// writeError maps library errors to HTTP statuses. Error messages never
// contain key material.
func (s *Server) writeError(ctx *gin.Context, logger *zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, custodylib.ErrNotAuthenticated), errors.Is(err, id.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, custodylib.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, io.ErrNotFound), errors.Is(err, vault.ErrNotFound), errors.Is(err, id.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, vault.ErrAlreadyExists), errors.Is(err, id.ErrUserAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, custodylib.ErrCountMismatch), errors.Is(err, crypto.ErrInvalidPublicKey):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleCreateUser(ctx *gin.Context) {
	request := struct {
		Scopes []string `json:"scopes"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scopes, err := parseScopes(request.Scopes)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger := s.handlerLogger(ctx)
	uid, password, err := s.idProvider.NewUser(scopes)
	if err != nil {
		s.writeError(ctx, &logger, err)
		return
	}

	log.WithUID(&logger, uid)
	logger.Info().Msg("user created")
	ctx.JSON(http.StatusOK, gin.H{"uid": uid, "password": password})
}

func (s *Server) handleLogin(ctx *gin.Context) {
	request := struct {
		UID      uuid.UUID `json:"uid"`
		Password string    `json:"password"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger := s.handlerLogger(ctx)
	log.WithUID(&logger, request.UID)

	token, err := s.idProvider.LoginUser(request.UID, request.Password)
	if err != nil {
		s.writeError(ctx, &logger, err)
		return
	}

	logger.Info().Msg("user logged in")
	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) handleUploadBook(ctx *gin.Context) {
	request := struct {
		Title   string `json:"title"`
		Locator string `json:"locator"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Locator == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "locator must not be empty"})
		return
	}

	logger := s.handlerLogger(ctx)
	bid, err := s.custody.Upload(bearerToken(ctx), request.Title, request.Locator)
	if err != nil {
		s.writeError(ctx, &logger, err)
		return
	}

	log.WithBookID(&logger, bid)
	logger.Info().Msg("book uploaded")
	ctx.JSON(http.StatusOK, gin.H{"id": bid})
}

func (s *Server) handleGetLocator(ctx *gin.Context) {
	bid, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	logger := s.handlerLogger(ctx)
	log.WithBookID(&logger, bid)

	locator, err := s.custody.GetLocator(bearerToken(ctx), bid)
	if err != nil {
		s.writeError(ctx, &logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"locator": locator})
}

func (s *Server) handleUpdateLocator(ctx *gin.Context) {
	bid, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	request := struct {
		Locator string `json:"locator"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Locator == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "locator must not be empty"})
		return
	}

	logger := s.handlerLogger(ctx)
	log.WithBookID(&logger, bid)

	if err := s.custody.UpdateLocator(bearerToken(ctx), bid, request.Locator); err != nil {
		s.writeError(ctx, &logger, err)
		return
	}

	logger.Info().Msg("locator updated")
	ctx.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteBook(ctx *gin.Context) {
	bid, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	logger := s.handlerLogger(ctx)
	log.WithBookID(&logger, bid)

	if err := s.custody.Delete(bearerToken(ctx), bid); err != nil {
		s.writeError(ctx, &logger, err)
		return
	}

	logger.Info().Msg("book deleted")
	ctx.Status(http.StatusNoContent)
}

func (s *Server) handleGetCatalogue(ctx *gin.Context) {
	author, err := uuid.FromString(ctx.Param("author"))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	logger := s.handlerLogger(ctx)
	log.WithAuthorID(&logger, author)

	books, err := s.custody.GetCatalogue(bearerToken(ctx), author)
	if err != nil {
		s.writeError(ctx, &logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"books": books})
}

func (s *Server) handlePurchase(ctx *gin.Context) {
	author, err := uuid.FromString(ctx.Param("author"))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	request := struct {
		PublicKeys []string `json:"public_keys"`
	}{}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger := s.handlerLogger(ctx)
	log.WithAuthorID(&logger, author)

	bundle, err := s.custody.Purchase(bearerToken(ctx), author, request.PublicKeys)
	if err != nil {
		s.writeError(ctx, &logger, err)
		return
	}

	logger.Info().Int("books", len(bundle.WrappedKeys)).Msg("catalogue purchased")
	ctx.JSON(http.StatusOK, gin.H{
		"wrapped_keys":    bundle.WrappedKeys,
		"sealed_locators": bundle.SealedLocators,
	})
}
