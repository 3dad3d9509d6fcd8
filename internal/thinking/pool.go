package thinking

// StatusLine is one canned status string.
type StatusLine string

// Pool is an immutable set of status lines to sample from.
type Pool []StatusLine

var defaultLines = [...]StatusLine{
	// Authentication & setup
	"Initializing NetSuite REST authentication...",
	"Generating OAuth 1.0 headers...",
	"Configuring TBA (Token Based Authentication)...",
	"Validating account credentials...",
	"Setting up REST endpoints...",

	// Requests
	"GET /rest/platform/v1/record/customer",
	"POST /rest/platform/v1/record/salesorder",
	"PATCH /rest/platform/v1/record/invoice/{id}",
	"Analyzing response headers...",
	"Processing rate limiting parameters...",

	// Data processing
	"Mapping customer fields to NetSuite schema...",
	"Validating mandatory fields...",
	"Transforming JSON payload...",
	"Sanitizing input data...",
	"Building RESTlet request body...",

	// Integration logic
	"Implementing retry mechanism...",
	"Setting up error handling...",
	"Configuring webhook listeners...",
	"Establishing secure connection...",
	"Validating SSL certificates...",

	// Business logic
	"Processing customer records...",
	"Updating inventory levels...",
	"Synchronizing order status...",
	"Calculating tax rates...",
	"Validating business rules...",

	// Technical operations
	"Implementing pagination logic...",
	"Optimizing batch operations...",
	"Caching authentication tokens...",
	"Managing session state...",
	"Handling concurrent requests...",

	// Error handling
	"Checking response status: 429 Too Many Requests",
	"Implementing exponential backoff...",
	"Handling timeout exceptions...",
	"Processing error queue...",
	"Logging integration events...",

	// Performance
	"Monitoring API usage...",
	"Optimizing request payload...",
	"Analyzing response times...",
	"Implementing connection pooling...",
	"Managing memory allocation...",
}

// DefaultPool returns a copy of the built-in status lines.
func DefaultPool() Pool {
	p := make(Pool, len(defaultLines))
	copy(p, defaultLines[:])
	return p
}

// Contains reports whether line is a member of the pool.
func (p Pool) Contains(line StatusLine) bool {
	for _, l := range p {
		if l == line {
			return true
		}
	}
	return false
}

// Generate samples n lines uniformly with replacement from pool.
// An empty pool or non-positive n yields an empty sequence.
func Generate(pool Pool, n int, rng Source) []StatusLine {
	if len(pool) == 0 || n <= 0 {
		return nil
	}
	seq := make([]StatusLine, n)
	for i := range seq {
		seq[i] = pool[rng.IntN(len(pool))]
	}
	return seq
}
