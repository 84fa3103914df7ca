// Package provisioning provides shared types, interfaces, and orchestration
// for landing zone provisioning.
//
// # Core Types
//
// Context carries configuration, policy state, platform clients, and the
// observer. Stage defines a deployment step with Name() and Run() methods.
// State accumulates results from each stage (root id, organizational units,
// shared account ids, landing zone operation ids).
//
// Stages run strictly in order; a stage starts only after every earlier
// stage has succeeded.
package provisioning
