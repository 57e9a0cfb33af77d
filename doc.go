// Package main provides the entry point for go-api-template.
// It serves a json api built with Fiber on top of a relational database
// reached through gorm (postgres, mysql or sqlite). Queries and migrations
// are plain SQL files, settings come from the environment and an optional
// .env file.
package main
