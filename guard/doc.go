// Package guard evaluates role-gated navigation over a verified session.
//
// A Guard never answers from an unverified snapshot: it runs the configured
// verifier first and fails closed when verification cannot complete. Denied
// visitors are redirected to their own role's landing page rather than shown
// an error.
package guard
