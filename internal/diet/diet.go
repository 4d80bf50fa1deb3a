// Package diet computes daily calorie and macro targets with the
// Harris-Benedict equation.
package diet

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidProfile  = errors.New("invalid diet profile")
	ErrUnknownActivity = errors.New("unknown activity level")
	ErrUnknownGoal     = errors.New("unknown goal")
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

type Activity string

const (
	ActivitySedentary        Activity = "Sedentary"
	ActivityLightlyActive    Activity = "Lightly Active"
	ActivityModeratelyActive Activity = "Moderately Active"
	ActivityVeryActive       Activity = "Very Active"
	ActivityExtraActive      Activity = "Extra Active"
)

var Activities = []Activity{
	ActivitySedentary,
	ActivityLightlyActive,
	ActivityModeratelyActive,
	ActivityVeryActive,
	ActivityExtraActive,
}

var activityMultipliers = map[Activity]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtraActive:      1.9,
}

type Goal string

const (
	GoalLose     Goal = "Lose Weight"
	GoalMaintain Goal = "Maintain Weight"
	GoalGain     Goal = "Gain Weight"
)

var Goals = []Goal{GoalLose, GoalMaintain, GoalGain}

// goalAdjustment is the daily calorie surplus or deficit for a goal.
const goalAdjustment = 500

// Profile is the body data a user enters on the diet form.
type Profile struct {
	Age      int      `json:"age"`
	WeightKg float64  `json:"weight_kg"`
	HeightCm float64  `json:"height_cm"`
	Gender   Gender   `json:"gender"`
	Activity Activity `json:"activity"`
	Goal     Goal     `json:"goal"`
}

// Validate applies the input ranges of the diet form.
func (p Profile) Validate() error {
	switch {
	case !finite(p.WeightKg) || !finite(p.HeightCm):
		return fmt.Errorf("%w: weight and height must be numbers", ErrInvalidProfile)
	case p.Age < 18 || p.Age > 100:
		return fmt.Errorf("%w: age must be between 18 and 100", ErrInvalidProfile)
	case p.WeightKg < 40 || p.WeightKg > 200:
		return fmt.Errorf("%w: weight must be between 40 and 200 kg", ErrInvalidProfile)
	case p.HeightCm < 140 || p.HeightCm > 220:
		return fmt.Errorf("%w: height must be between 140 and 220 cm", ErrInvalidProfile)
	}
	if _, ok := activityMultipliers[p.Activity]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownActivity, p.Activity)
	}
	switch p.Goal {
	case GoalLose, GoalMaintain, GoalGain:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGoal, p.Goal)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// BMR is the basal metabolic rate in kcal/day. Any gender other than Male
// uses the female coefficients.
func BMR(weightKg, heightCm float64, age int, gender Gender) float64 {
	a := float64(age)
	if strings.EqualFold(string(gender), string(GenderMale)) {
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*a
	}
	return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*a
}

// TDEE scales bmr by the activity multiplier.
func TDEE(bmr float64, activity Activity) (float64, error) {
	m, ok := activityMultipliers[activity]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownActivity, activity)
	}
	return bmr * m, nil
}

// Macros are grams per day for a calorie target.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
}

// Targets adjusts tdee for goal and splits the result 30/40/30 across
// protein, carbohydrate and fat. Unknown goals are treated as maintain.
func Targets(tdee float64, goal Goal) Macros {
	target := tdee
	switch goal {
	case GoalLose:
		target -= goalAdjustment
	case GoalGain:
		target += goalAdjustment
	}
	return Macros{
		Calories: target,
		Protein:  target * 0.3 / 4,
		Carbs:    target * 0.4 / 4,
		Fat:      target * 0.3 / 9,
	}
}

type Meal struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

var mealShares = []struct {
	name  string
	share float64
}{
	{"Breakfast", 0.25},
	{"Snack", 0.10},
	{"Lunch", 0.30},
	{"Snack", 0.10},
	{"Dinner", 0.25},
}

// MealSplit spreads calories over five meals, rounded to whole kcal.
func MealSplit(calories float64) []Meal {
	meals := make([]Meal, len(mealShares))
	for i, m := range mealShares {
		meals[i] = Meal{Name: m.name, Calories: int(math.Round(calories * m.share))}
	}
	return meals
}

// Plan is the full calculator result for one profile.
type Plan struct {
	Profile Profile `json:"profile"`
	BMR     float64 `json:"bmr"`
	TDEE    float64 `json:"tdee"`
	Macros  Macros  `json:"macros"`
	Meals   []Meal  `json:"meals"`
}

// Calculate validates p and runs every step of the calculator.
func Calculate(p Profile) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	bmr := BMR(p.WeightKg, p.HeightCm, p.Age, p.Gender)
	tdee, err := TDEE(bmr, p.Activity)
	if err != nil {
		return nil, err
	}
	macros := Targets(tdee, p.Goal)
	return &Plan{
		Profile: p,
		BMR:     bmr,
		TDEE:    tdee,
		Macros:  macros,
		Meals:   MealSplit(macros.Calories),
	}, nil
}
