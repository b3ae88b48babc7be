package offer

// Wish-list tag ids agents can pick. The set is fixed; profile updates reject
// anything outside it.
const (
	Wish9010Split       = "90_10_SPLIT"
	Wish8020Split       = "80_20_SPLIT"
	Wish100Split        = "100_SPLIT"
	WishCapUnder25K     = "CAP_UNDER_25K"
	WishCapUnder15K     = "CAP_UNDER_15K"
	WishNoMonthlyFees   = "NO_MONTHLY_FEES"
	WishLowMonthlyFees  = "LOW_MONTHLY_FEES"
	WishHealthInsurance = "HEALTH_INSURANCE"
	WishRetirement401K  = "RETIREMENT_401K"
	WishTraining        = "TRAINING_MENTORSHIP"
	WishLeadsProvided   = "LEADS_PROVIDED"
	WishTransactionCoor = "TRANSACTION_COORDINATOR"
	WishMarketing       = "MARKETING_SUPPORT"
	WishFollowUpBossCRM = "FOLLOW_UP_BOSS_CRM"
	WishKVCoreCRM       = "KVCORE_CRM"
	WishTechStack       = "TECH_STACK_INCLUDED"
	WishOfficeSpace     = "OFFICE_SPACE"
	WishRemoteFriendly  = "REMOTE_FRIENDLY"
	WishTeamEnvironment = "TEAM_ENVIRONMENT"
	WishIndependentWork = "INDEPENDENT_WORK"
)

// Benefit ids brokerages list under AdditionalBenefits.
const (
	BenefitHealthInsurance = "health_insurance"
	BenefitRetirement401K  = "retirement_401k"
	BenefitTraining        = "training"
	BenefitLeads           = "leads"
	BenefitTransactionCoor = "transaction_coordinator"
	BenefitMarketing       = "marketing"
	BenefitTechStack       = "tech_stack"
	BenefitOfficeSpace     = "office_space"
)

var wishListTags = map[string]bool{
	Wish9010Split:       true,
	Wish8020Split:       true,
	Wish100Split:        true,
	WishCapUnder25K:     true,
	WishCapUnder15K:     true,
	WishNoMonthlyFees:   true,
	WishLowMonthlyFees:  true,
	WishHealthInsurance: true,
	WishRetirement401K:  true,
	WishTraining:        true,
	WishLeadsProvided:   true,
	WishTransactionCoor: true,
	WishMarketing:       true,
	WishFollowUpBossCRM: true,
	WishKVCoreCRM:       true,
	WishTechStack:       true,
	WishOfficeSpace:     true,
	WishRemoteFriendly:  true,
	WishTeamEnvironment: true,
	WishIndependentWork: true,
}

var validBenefits = map[string]bool{
	BenefitHealthInsurance: true,
	BenefitRetirement401K:  true,
	BenefitTraining:        true,
	BenefitLeads:           true,
	BenefitTransactionCoor: true,
	BenefitMarketing:       true,
	BenefitTechStack:       true,
	BenefitOfficeSpace:     true,
}

// WishToBenefit maps benefit-style wish tags onto the benefit ids brokerages
// advertise. Tags absent from this map are satisfied (or not) by the numeric
// predicates in the match package.
var WishToBenefit = map[string]string{
	WishHealthInsurance: BenefitHealthInsurance,
	WishRetirement401K:  BenefitRetirement401K,
	WishTraining:        BenefitTraining,
	WishLeadsProvided:   BenefitLeads,
	WishTransactionCoor: BenefitTransactionCoor,
	WishMarketing:       BenefitMarketing,
	WishTechStack:       BenefitTechStack,
	WishOfficeSpace:     BenefitOfficeSpace,
}

// ValidWishTag reports whether id belongs to the fixed wish-list vocabulary.
func ValidWishTag(id string) bool {
	return wishListTags[id]
}
