package internaldefs

import (
	"github.com/wowktm/authkit"
)

// CounterDef binds a core metric ID to its stable exported name.
type CounterDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

// HistogramDef binds a core histogram ID to its stable exported name.
type HistogramDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter. Both exporters iterate this
// slice so names never diverge between backends.
var CounterDefs = []CounterDef{
	{ID: authkit.MetricLoginSuccess, Name: "authkit_login_success_total", Help: "Successful login attempts."},
	{ID: authkit.MetricLoginFailure, Name: "authkit_login_failure_total", Help: "Failed login attempts."},
	{ID: authkit.MetricLoginTimeout, Name: "authkit_login_timeout_total", Help: "Login attempts abandoned at the deadline."},
	{ID: authkit.MetricSessionRestored, Name: "authkit_session_restored_total", Help: "Successful session restores."},
	{ID: authkit.MetricRestoreFailure, Name: "authkit_restore_failure_total", Help: "Failed session restores."},
	{ID: authkit.MetricLogout, Name: "authkit_logout_total", Help: "Logout operations."},
	{ID: authkit.MetricRoleUpdateSuccess, Name: "authkit_role_update_success_total", Help: "Applied role updates."},
	{ID: authkit.MetricRoleUpdateDenied, Name: "authkit_role_update_denied_total", Help: "Role updates denied for missing permission."},
	{ID: authkit.MetricAccessAllowed, Name: "authkit_access_allowed_total", Help: "Access evaluations that allowed the request."},
	{ID: authkit.MetricAccessDenied, Name: "authkit_access_denied_total", Help: "Access evaluations that denied the request."},
	{ID: authkit.MetricAccessRedirected, Name: "authkit_access_redirected_total", Help: "Access evaluations with no authenticated user."},
	{ID: authkit.MetricSignupSuccess, Name: "authkit_signup_success_total", Help: "Created accounts."},
	{ID: authkit.MetricSignupDuplicate, Name: "authkit_signup_duplicate_total", Help: "Signups rejected as duplicate email or phone."},
	{ID: authkit.MetricSignupInvalid, Name: "authkit_signup_invalid_total", Help: "Signups rejected by field validation."},
	{ID: authkit.MetricVerificationSuccess, Name: "authkit_email_verification_success_total", Help: "Consumed email verification tokens."},
	{ID: authkit.MetricVerificationFailure, Name: "authkit_email_verification_failure_total", Help: "Rejected email verification tokens."},
	{ID: authkit.MetricResetRequest, Name: "authkit_password_reset_request_total", Help: "Password reset requests."},
	{ID: authkit.MetricResetSuccess, Name: "authkit_password_reset_success_total", Help: "Completed password resets."},
	{ID: authkit.MetricResetFailure, Name: "authkit_password_reset_failure_total", Help: "Rejected password resets."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: authkit.MetricAuthorizeLatency, Name: "authkit_authorize_latency_seconds", Help: "Authorize latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// core bucket layout (1us to 1ms).
var HistogramBounds = []string{
	"0.000001",
	"0.000005",
	"0.00001",
	"0.00005",
	"0.0001",
	"0.0005",
	"0.001",
	"+Inf",
}

// HistogramBoundSuffix holds instrument-name-safe forms of the bounds for
// backends that cannot carry an le label.
var HistogramBoundSuffix = []string{
	"1us",
	"5us",
	"10us",
	"50us",
	"100us",
	"500us",
	"1ms",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus and OTel expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
