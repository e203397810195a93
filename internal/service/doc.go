// Package service contains the use cases of the Bloom reference server:
// account registration and sign-in, catalog reads and the progress write
// path that maintains streaks, scores and energy.
//
// Services coordinate the stores defined in internal/store and apply
// transactional boundaries when an operation spans more than one write. They
// never depend on a concrete database implementation.
package service
