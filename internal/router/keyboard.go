package router

// Keyboard labels. The petrol label carries a variation selector that the
// diesel one does not; clients echo the exact bytes back.
const (
	LabelPetrolPrice = "⛽️ Petrol Price"
	LabelPetrolTable = "📊 Petrol Table"
	LabelDieselPrice = "⛽ Diesel Price"
	LabelDieselTable = "📊 Diesel Table"
	LabelRemind      = "⏰ Remind me daily"
	LabelUnremind    = "❌ Dont remind me anymore"
	LabelContact     = "👨🏻‍💻 Contact the developer"
)

// Keyboard returns the reply keyboard for a chat, offering the reminder
// toggle that matches its current subscription state.
func Keyboard(subscribed bool) [][]string {
	toggle := LabelRemind
	if subscribed {
		toggle = LabelUnremind
	}
	return [][]string{
		{LabelPetrolPrice, LabelPetrolTable},
		{LabelDieselPrice, LabelDieselTable},
		{toggle},
		{LabelContact},
	}
}
