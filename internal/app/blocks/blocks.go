// Package blocks holds the Kakao Open Builder block identifiers wired to
// this bot, plus the quick-reply sets built from them.
package blocks

import "github.com/sandol-project/kakao-bot-service/internal/kakao"

// Block IDs registered in the Open Builder console.
const (
	Confirm           = "6721838c369c0a05baca37a1"
	AddLunchMenu      = "672181220b8411112c75c884"
	AddDinnerMenu     = "672181305e0ed128077abf5e"
	ModifyMenu        = "67218142369c0a05baca376c"
	DeleteMenu        = "67218366770f3e5a431708ac"
	DeleteAllMenus    = "6721837657cc8a7ef53213ef"
	ApproveRestaurant = "6731d9b89fb8545410e9d29b"
	DeclineRestaurant = "674031c1aeded40bd4bd58d9"
	RestaurantInfo    = "672183965e0ed128077abfe3"
	SelectRestaurant  = "67f3d3080e01a1241f2707c7"
	ClassroomDetail   = "683585d52a22a85698b931d5"
	Login             = "686a75d32036e951aa06169c"
	UnitInfo          = "679ca1348c69ad7d00db038e"
)

// Help is the quick reply offered alongside most responses.
func Help() kakao.QuickReply {
	return kakao.QuickReply{Label: "도움말", Action: "message", MessageText: "도움말"}
}

// CafeteriaRegisterQuickReplies returns the quick replies shown during meal
// registration. When restaurantName is non-empty it is attached as extra so
// follow-up blocks know which restaurant is being edited.
func CafeteriaRegisterQuickReplies(restaurantName string) []kakao.QuickReply {
	replies := []kakao.QuickReply{
		{Label: "확정", Action: "block", BlockID: Confirm},
		{Label: "점심 메뉴 추가", Action: "block", BlockID: AddLunchMenu},
		{Label: "저녁 메뉴 추가", Action: "block", BlockID: AddDinnerMenu},
		{Label: "메뉴 수정", Action: "block", BlockID: ModifyMenu},
	}
	if restaurantName == "" {
		return replies
	}
	for i := range replies {
		replies[i].Extra = map[string]interface{}{"restaurant_name": restaurantName}
	}
	return replies
}
