// Package server serves document generation over HTTP with gin.
package server
