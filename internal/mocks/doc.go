// Package mocks holds the test doubles shared across packages.
//
// MockTokenCodec and MockPasswordVerifier use function fields, so a test sets
// only the behaviour it cares about:
//
//	codec := &mocks.MockTokenCodec{
//	    IssueFn: func(ctx context.Context, subject string, authorities []string) (string, error) {
//	        return "mocked-token", nil
//	    },
//	}
//
// The store and service mocks embed testify's mock.Mock and are driven with
// On(...).Return(...). Their WithTx methods return the mock itself, so
// expectations set before a transaction also apply inside it.
package mocks
