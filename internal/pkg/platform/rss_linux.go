package platform

// Linux's getrusage(2) reports ru_maxrss in kibibytes.
const maxRSSUnitBytes = 1024
