package wallet

// DefaultReferralBonus is the one-time bonus credited to a referrer
// when a downline account activates, in currency units.
const DefaultReferralBonus = "400"
