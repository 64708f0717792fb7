package services

import "time"

// Services defined in this package:
// - AuthService: registration, login and token refresh
// - CatalogService: courses, offerings and terms, plus the student-facing
//   offering listing
// - EnrollmentService: the selection engine (select, drop, roster,
//   credit position)

// timeNow is injectable for tests
var timeNow = time.Now
