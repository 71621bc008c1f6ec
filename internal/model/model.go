// Package model contains the domain data structures shared across layers.
// No business logic here; the workflow and threading rules live in service.
package model
