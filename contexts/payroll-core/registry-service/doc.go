// Package registryservice contains the Remit registry: organizations, their
// members, the global scan cursor pair, and engine settings.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition. It owns every identifier
// and cross-reference in the payroll data model; the disbursement engine only
// reads this state and advances member due timestamps through the single
// mutation entry point exposed here.
package registryservice
