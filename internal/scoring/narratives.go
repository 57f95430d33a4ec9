package scoring

import "neopir/internal/inventory"

// FallbackDescription is returned when no narrative exists for a dimension and level.
const FallbackDescription = "Description not available."

var narratives = map[inventory.Dimension]map[Level]string{
	inventory.Neuroticism: {
		LevelHigh:   "You tend to experience negative emotions such as anxiety, sadness or anger more often. You may be more sensitive to stress.",
		LevelMedium: "You maintain a relative emotional balance, with periods of normal stress alternating with moments of serenity.",
		LevelLow:    "You are generally calm, serene and emotionally stable. You handle stress well and stay optimistic.",
	},
	inventory.Extraversion: {
		LevelHigh:   "You are sociable, energetic and enthusiastic. You enjoy the company of others and seek out stimulation.",
		LevelMedium: "You balance social activity with time on your own and adapt easily to different social contexts.",
		LevelLow:    "You are reserved and prefer calm settings. You recharge on your own and value deep relationships over many contacts.",
	},
	inventory.Openness: {
		LevelHigh:   "You are curious, imaginative and open to new experiences. You appreciate art, ideas and unconventional approaches.",
		LevelMedium: "You combine openness to novelty with an attachment to what is familiar and proven.",
		LevelLow:    "You are practical and down to earth. You prefer the familiar, concrete facts and proven methods.",
	},
	inventory.Agreeableness: {
		LevelHigh:   "You are kind, cooperative and trusting. You care about the well-being of others and seek harmony.",
		LevelMedium: "You balance cooperation with asserting your own interests and can be both accommodating and firm.",
		LevelLow:    "You are direct and competitive. You assert your point of view and stay sceptical of the intentions of others.",
	},
	inventory.Conscientiousness: {
		LevelHigh:   "You are organized, disciplined and reliable. You plan ahead and persevere to reach your goals.",
		LevelMedium: "You are reasonably organized while keeping some flexibility and spontaneity.",
		LevelLow:    "You are spontaneous and flexible. You prefer to improvise and may find strict planning constraining.",
	},
}

// Description returns the narrative for d at level, or FallbackDescription.
func Description(d inventory.Dimension, level Level) string {
	if byLevel, ok := narratives[d]; ok {
		if text, ok := byLevel[level]; ok {
			return text
		}
	}
	return FallbackDescription
}
