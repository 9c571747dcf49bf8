package model

// Act is a performer that can be booked into gigs.  Genre is free text;
// only the exact values "rock" and "pop" change scheduling rules.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique act name.
//  Genre       – musical genre.
//  StandardFee – the act's usual fee per gig.
type Act struct {
    ID          uint64 // act.act_id
    Name        string // act.act_name
    Genre       string // act.genre
    StandardFee int    // act.standard_fee
}
