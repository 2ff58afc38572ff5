// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

// Package web exposes the auth service as a JSON HTTP API.
//
// Routes:
//
//	POST /api/auth/register  create an account, 201 with token and user
//	POST /api/auth/login     authenticate, 200 with token and user
//	GET  /api/auth/me        bearer, 200 with user
//	POST /api/auth/logout    bearer, 200
//	GET  /api/test           health check
//
// Every error body is {"error": "<message>"}.
package web
