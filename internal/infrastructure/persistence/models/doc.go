// Package models contains the GORM persistence models and their
// conversions to and from the domain aggregates. Domain types stay free
// of persistence tags; every column mapping lives here.
package models
