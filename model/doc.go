// Package model defines the core identifier and scoring types shared by the
// index, search, and interception layers.
package model
