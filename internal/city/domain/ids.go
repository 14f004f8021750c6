package domain

type PlayerID int
type CityID int

const NoPlayer PlayerID = -1
