// Package openapi exposes the contracts for loading OpenAPI documents and
// extracting the operations whose request bodies describe forms. Loader and
// parser implementations live under internal/openapi; construct them through
// the root formsubmit package.
package openapi
