package estimator

// ValidateFateMatrix exposes the solve-output validation to the black-box
// tests.
var ValidateFateMatrix = validateFateMatrix
