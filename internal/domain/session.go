package domain

import "time"

// SessionTTL is the fixed lifetime of an admin session token.
const SessionTTL = 8 * time.Hour
