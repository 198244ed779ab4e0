package config

// Administrative region hierarchy backing the region-picker endpoints.
// 시/도 → 구/군 → 동. Centered on the Gangnam service area, with the
// neighboring districts the dashboard links out to.

type Region struct {
	Province  string
	Districts []District
}

type District struct {
	Name  string
	Dongs []string
}

var KoreaRegions = []Region{
	{
		Province: "서울특별시",
		Districts: []District{
			{
				Name: "강남구",
				Dongs: []string{
					"삼성동", "역삼동", "논현동", "청담동", "대치동",
					"개포동", "도곡동", "일원동", "수서동", "세곡동",
					"신사동", "압구정동",
				},
			},
			{
				Name:  "서초구",
				Dongs: []string{"서초동", "반포동", "방배동", "잠원동", "양재동", "내곡동"},
			},
			{
				Name:  "송파구",
				Dongs: []string{"잠실동", "신천동", "송파동", "방이동", "가락동", "문정동"},
			},
			{
				Name:  "강동구",
				Dongs: []string{"천호동", "성내동", "길동", "둔촌동", "암사동", "명일동"},
			},
		},
	},
	{
		Province: "경기도",
		Districts: []District{
			{
				Name:  "성남시 분당구",
				Dongs: []string{"정자동", "서현동", "수내동", "분당동", "판교동"},
			},
			{
				Name:  "과천시",
				Dongs: []string{"중앙동", "별양동", "원문동"},
			},
			{
				Name:  "하남시",
				Dongs: []string{"미사동", "덕풍동", "신장동"},
			},
		},
	},
}

// ListProvinces returns the 시/도 names in table order.
func ListProvinces() []string {
	names := make([]string, len(KoreaRegions))
	for i, r := range KoreaRegions {
		names[i] = r.Province
	}
	return names
}

// ListDistricts returns the 구/군 names for a province; unknown provinces get
// an empty list.
func ListDistricts(province string) []string {
	for _, r := range KoreaRegions {
		if r.Province == province {
			names := make([]string, len(r.Districts))
			for i, d := range r.Districts {
				names[i] = d.Name
			}
			return names
		}
	}
	return []string{}
}

// ListDongs returns the 동 names for a district; unknown parents get an empty
// list.
func ListDongs(province, district string) []string {
	for _, r := range KoreaRegions {
		if r.Province != province {
			continue
		}
		for _, d := range r.Districts {
			if d.Name == district {
				return d.Dongs
			}
		}
	}
	return []string{}
}
