// SPDX-License-Identifier: MPL-2.0

// Package cloudtruth is a minimal client for the CloudTruth REST API.
//
// Client implements resolve.ConfigService and resolve.IdentityResolver. It
// authenticates with a static API key, follows "next" links for paginated
// listings and performs no retries.
package cloudtruth
