// Package domain defines the core business entities (Project, Task),
// their validation rules, and the closed set of domain errors.
package domain
