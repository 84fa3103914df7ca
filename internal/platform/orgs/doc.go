// Package orgs wraps AWS Organizations, IAM, and STS behind narrow
// interfaces consumed by the provisioning pipeline.
//
// The [API] interface composes per-concern interfaces (organization
// structure, accounts, policies, roles, delegation, identity) so that
// components depend only on the operations they use and tests can substitute
// small fakes. [RealClient] is the production implementation.
package orgs
