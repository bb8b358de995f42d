package model

// FeatureCard is one of the highlight cards on the home page.
type FeatureCard struct {
	Icon        string
	Title       string
	Description string
}

// DefaultFeatureCards returns the home page cards in display order.
func DefaultFeatureCards() []FeatureCard {
	return []FeatureCard{
		{Icon: "🚀", Title: "快速上手", Description: "幾行程式就能啟動網站，路由與模板一目了然。"},
		{Icon: "📝", Title: "模板渲染", Description: "頁面由伺服器端模板產生，資料與畫面分離。"},
		{Icon: "🎨", Title: "樣式美化", Description: "內建靜態 CSS，提供乾淨一致的版面。"},
	}
}
