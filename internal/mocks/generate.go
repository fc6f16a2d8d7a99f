package mocks

// Mock generation directives. The generated files are committed; run
// `go generate ./internal/mocks/` after changing a core interface.

//go:generate go run go.uber.org/mock/mockgen -source=../core/identity.go -destination=mock_identity.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/audit.go -destination=mock_audit.go -package=mocks
//go:generate go run go.uber.org/mock/mockgen -source=../core/mail.go -destination=mock_mail.go -package=mocks
