package service

// Tuning constants for the progression engine. Kept together because
// they plausibly vary by deployment.
const (
	// PointsPerCorrectAnswer is the fixed reward per correct question
	PointsPerCorrectAnswer = 10

	// ExpPerLevel is the experience a pet needs to gain a level.
	// Pet experience is always stored as the remainder below this.
	ExpPerLevel = 100

	// FeedCost is the points price of feeding a pet
	FeedCost = 10

	// FeedHappinessBoost and FeedHungerDrop are applied per feeding
	FeedHappinessBoost = 10
	FeedHungerDrop     = 20

	// HungerPerHour is how fast a pet gets hungry since last fed
	HungerPerHour = 5

	// HungryThreshold is the hunger level above which happiness decays
	HungryThreshold = 80

	// HungryHappinessPenalty is the happiness lost per decay sweep while
	// hunger is above the threshold
	HungryHappinessPenalty = 10

	// MaxStat caps pet happiness and hunger
	MaxStat = 100

	// difficultyWindow is how many recent sessions feed difficulty recalculation
	difficultyWindow = 10
)
