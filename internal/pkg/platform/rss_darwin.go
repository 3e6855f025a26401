package platform

// Darwin's getrusage(2) reports ru_maxrss in bytes.
const maxRSSUnitBytes = 1
