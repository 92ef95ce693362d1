// Package mocks provides mock implementations for testing the salespro services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockLeadRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(lead, nil)
package mocks

// Generate mock for ProfileRepository interface from internal/core package.
// This creates MockProfileRepository with methods for all ProfileRepository interface methods:
// Get, Create, Upsert, TouchLastLogin
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=profile_repository_mock.go github.com/lindasales/salespro/internal/core ProfileRepository

// Generate mock for CredentialRepository interface from internal/core package.
// This creates MockCredentialRepository with methods for all CredentialRepository interface methods:
// Create, GetByEmail
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=credential_repository_mock.go github.com/lindasales/salespro/internal/core CredentialRepository

// Generate mock for LeadRepository interface from internal/core package.
// This creates MockLeadRepository with methods for all LeadRepository interface methods:
// Create, GetByID, List, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=lead_repository_mock.go github.com/lindasales/salespro/internal/core LeadRepository

// Generate mock for CustomerRepository interface from internal/core package.
// This creates MockCustomerRepository with methods for all CustomerRepository interface methods:
// Create, GetByID, List, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=customer_repository_mock.go github.com/lindasales/salespro/internal/core CustomerRepository

// Generate mock for OfferRepository interface from internal/core package.
// This creates MockOfferRepository with methods for all OfferRepository interface methods:
// Create, GetByID, List, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=offer_repository_mock.go github.com/lindasales/salespro/internal/core OfferRepository

// Generate mock for AppointmentRepository interface from internal/core package.
// This creates MockAppointmentRepository with methods for all AppointmentRepository interface methods:
// Create, GetByID, ListUpcoming, Update, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=appointment_repository_mock.go github.com/lindasales/salespro/internal/core AppointmentRepository

// Generate mock for MessageRepository interface from internal/core package.
// This creates MockMessageRepository with methods for all MessageRepository interface methods:
// Create, ListThread, ListContacts
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=message_repository_mock.go github.com/lindasales/salespro/internal/core MessageRepository

// Generate mock for NotificationStore interface from internal/core package.
// This creates MockNotificationStore with methods for all NotificationStore interface methods:
// Push, Drain
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=notification_store_mock.go github.com/lindasales/salespro/internal/core NotificationStore
